package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/naming"
	"gopkg.in/yaml.v3"
)

const FileName = "headersync.yaml"

type Config struct {
	SourceRoot string     `yaml:"source_root" validate:"required"`
	OutputRoot string     `yaml:"output_root" validate:"required"`
	LogFile    string     `yaml:"log_file" validate:"required"`
	Preserve   []string   `yaml:"preserve" validate:"dive,required"`
	Naming     Naming     `yaml:"naming"`
	Translator Translator `yaml:"translator"`
	Cache      Cache      `yaml:"cache"`

	// Path of the file this config was read from, empty for defaults.
	Path string `yaml:"-"`
}

type Naming struct {
	HeaderExtensions     []string               `yaml:"header_extensions" validate:"min=1,dive,startswith=."`
	ModuleExtension      string                 `yaml:"module_extension" validate:"required,startswith=."`
	TopLevelDeclaration  string                 `yaml:"top_level_declaration" validate:"required,excludesall=/\\"`
	DirectoryDeclaration string                 `yaml:"directory_declaration" validate:"required,excludesall=/\\"`
	OnCollision          naming.CollisionPolicy `yaml:"on_collision" validate:"oneof=fail warn ignore"`
	// OnStemClash applies to a header next to a directory with the same
	// name, e.g. linux/can.h and linux/can/.
	OnStemClash          naming.CollisionPolicy `yaml:"on_stem_clash" validate:"oneof=fail warn ignore"`
}

type Translator struct {
	Command     string        `yaml:"command" validate:"required"`
	HiddenTypes []string      `yaml:"hidden_types" validate:"dive,required"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Cache struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path" validate:"required_if=Enabled true"`
	MaxEntries int    `yaml:"max_entries" validate:"gte=1"`
}

func Default() *Config {
	return &Config{
		SourceRoot: "linux/include/uapi",
		OutputRoot: "src",
		LogFile:    "headersync.log",
		Preserve:   []string{".gitkeep"},
		Naming: Naming{
			HeaderExtensions:     []string{".h"},
			ModuleExtension:      ".rs",
			TopLevelDeclaration:  "lib.rs",
			DirectoryDeclaration: "mod.rs",
			OnCollision:          naming.CollisionFail,
			OnStemClash:          naming.CollisionWarn,
		},
		Translator: Translator{
			Command: `bindgen "$WRAPPER" -- -I"$SOURCE_ROOT"`,
		},
		Cache: Cache{
			Enabled:    false,
			Path:       ".headersync/cache.db",
			MaxEntries: 1024,
		},
	}
}

// Load reads path, or headersync.yaml in the working directory when path is
// empty. A missing default file yields Default(). Relative paths in the
// result are resolved against the config file's directory.
func Load(fs afero.Fs, path string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(wd, FileName)
	}

	cfg := Default()
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml %s: %w", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
		}
		cfg.Path = abs
		logger.Debug("Config file found: %s", abs)
	case errors.Is(err, os.ErrNotExist) && !explicit:
		logger.Debug("No config file found, using default config")
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	base := wd
	if cfg.Path != "" {
		base = filepath.Dir(cfg.Path)
	}
	cfg.Resolve(base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Config: %+v", *cfg)
	return cfg, nil
}

// Resolve makes every path field absolute relative to base.
func (c *Config) Resolve(base string) {
	c.SourceRoot = resolve(base, c.SourceRoot)
	c.OutputRoot = resolve(base, c.OutputRoot)
	c.LogFile = resolve(base, c.LogFile)
	if c.Cache.Path != "" {
		c.Cache.Path = resolve(base, c.Cache.Path)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %s failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if filepath.Clean(c.SourceRoot) == filepath.Clean(c.OutputRoot) {
		return fmt.Errorf("invalid config: source_root and output_root are the same directory")
	}
	for _, p := range c.Preserve {
		if filepath.IsAbs(p) {
			return fmt.Errorf("invalid config: preserve entry %q must be relative to output_root", p)
		}
	}
	return nil
}

// TopLevelDeclarationPath is the declaration file at the output root.
func (c *Config) TopLevelDeclarationPath() string {
	return filepath.Join(c.OutputRoot, c.Naming.TopLevelDeclaration)
}

// AllowListPaths are the output root entries that survive a reset.
func (c *Config) AllowListPaths() []string {
	paths := []string{c.TopLevelDeclarationPath()}
	for _, p := range c.Preserve {
		paths = append(paths, filepath.Join(c.OutputRoot, p))
	}
	return paths
}

// IsHeader reports whether path has one of the recognized header extensions.
func (c *Config) IsHeader(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Naming.HeaderExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
