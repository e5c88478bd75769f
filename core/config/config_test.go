package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lithammer/dedent"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/headersync/core/naming"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	cfg.Resolve("/work")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/work/linux/include/uapi", cfg.SourceRoot)
	assert.Equal(t, "/work/src", cfg.OutputRoot)
	assert.Equal(t, "/work/src/lib.rs", cfg.TopLevelDeclarationPath())
	assert.Equal(t, []string{"/work/src/lib.rs", "/work/src/.gitkeep"}, cfg.AllowListPaths())
}

func TestLoad_ExplicitFileOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := dedent.Dedent(`
		source_root: headers
		output_root: /abs/out
		naming:
		  header_extensions: [".h", ".hpp"]
		  on_collision: warn
		  on_stem_clash: fail
		translator:
		  command: bindgen "$WRAPPER"
		  hidden_types: [atm_kptr_t]
		  timeout: 30s
		cache:
		  enabled: true
		`)
	require.NoError(t, afero.WriteFile(fs, "/proj/headersync.yaml", []byte(content), 0o644))

	cfg, err := Load(fs, "/proj/headersync.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/proj/headersync.yaml", cfg.Path)
	assert.Equal(t, "/proj/headers", cfg.SourceRoot)
	assert.Equal(t, "/abs/out", cfg.OutputRoot)
	assert.Equal(t, "/proj/headersync.log", cfg.LogFile)
	assert.Equal(t, []string{".h", ".hpp"}, cfg.Naming.HeaderExtensions)
	assert.Equal(t, ".rs", cfg.Naming.ModuleExtension)
	assert.Equal(t, naming.CollisionWarn, cfg.Naming.OnCollision)
	assert.Equal(t, naming.CollisionFail, cfg.Naming.OnStemClash)
	assert.Equal(t, []string{"atm_kptr_t"}, cfg.Translator.HiddenTypes)
	assert.Equal(t, 30*time.Second, cfg.Translator.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/proj/.headersync/cache.db", cfg.Cache.Path)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, filepath.Join(wd, "src"), cfg.OutputRoot)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope/headersync.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/headersync.yaml", []byte("source_root: [unterminated"), 0o644))

	_, err := Load(fs, "/p/headersync.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no header extensions", func(c *Config) { c.Naming.HeaderExtensions = nil }},
		{"extension without dot", func(c *Config) { c.Naming.ModuleExtension = "rs" }},
		{"unknown collision policy", func(c *Config) { c.Naming.OnCollision = "panic" }},
		{"unknown stem clash policy", func(c *Config) { c.Naming.OnStemClash = "" }},
		{"declaration with separator", func(c *Config) { c.Naming.DirectoryDeclaration = "x/mod.rs" }},
		{"empty translator", func(c *Config) { c.Translator.Command = "" }},
		{"same roots", func(c *Config) { c.OutputRoot = c.SourceRoot }},
		{"absolute preserve", func(c *Config) { c.Preserve = []string{"/etc/passwd"} }},
		{"cache without path", func(c *Config) { c.Cache.Enabled = true; c.Cache.Path = "" }},
		{"zero cache size", func(c *Config) { c.Cache.MaxEntries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Resolve("/work")
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestIsHeader(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsHeader("/src/net/if.h"))
	assert.False(t, cfg.IsHeader("/src/README"))
	assert.False(t, cfg.IsHeader("/src/Kbuild"))
	assert.False(t, cfg.IsHeader("/src/x.hpp"))
}
