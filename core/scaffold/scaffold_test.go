package scaffold

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/headersync/core/logger"
)

func newTestScaffolder(t *testing.T) (afero.Fs, *Scaffolder) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/out/lib.rs", nil, 0o644))

	layout := Layout{Root: "/out", TopLevelDeclaration: "lib.rs", DirectoryDeclaration: "mod.rs"}
	return fs, NewScaffolder(fs, layout, logger.Discard())
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestEnsureModulePath_CreatesNestedModules(t *testing.T) {
	fs, s := newTestScaffolder(t)

	require.NoError(t, s.EnsureModulePath(filepath.Join("linux", "netfilter")))

	assert.Equal(t, "\npub mod linux;\n", read(t, fs, "/out/lib.rs"))
	assert.Equal(t, "\npub mod netfilter;\n", read(t, fs, "/out/linux/mod.rs"))
	assert.Equal(t, "", read(t, fs, "/out/linux/netfilter/mod.rs"))
}

func TestEnsureModulePath_IsIdempotent(t *testing.T) {
	fs, s := newTestScaffolder(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.EnsureModulePath("net"))
		require.NoError(t, s.EnsureModulePath(filepath.Join("linux", "netfilter")))
		require.NoError(t, s.EnsureModulePath(filepath.Join("linux", "can")))
	}

	lib := read(t, fs, "/out/lib.rs")
	assert.Equal(t, 1, strings.Count(lib, "pub mod net;"))
	assert.Equal(t, 1, strings.Count(lib, "pub mod linux;"))

	linux := read(t, fs, "/out/linux/mod.rs")
	assert.Equal(t, "\npub mod netfilter;\n\npub mod can;\n", linux)
}

func TestEnsureModulePath_EmptyDirIsNoop(t *testing.T) {
	fs, s := newTestScaffolder(t)

	require.NoError(t, s.EnsureModulePath("."))
	require.NoError(t, s.EnsureModulePath(""))
	assert.Equal(t, "", read(t, fs, "/out/lib.rs"))
}

func TestEnsureModulePath_ExistingDirectoryIsNotRedeclared(t *testing.T) {
	fs, s := newTestScaffolder(t)
	require.NoError(t, fs.MkdirAll("/out/keep", 0o755))

	require.NoError(t, s.EnsureModulePath("keep"))
	assert.Equal(t, "", read(t, fs, "/out/lib.rs"))
}

func TestEnsureModulePath_FileInTheWayIsFatal(t *testing.T) {
	fs, s := newTestScaffolder(t)
	require.NoError(t, afero.WriteFile(fs, "/out/net", []byte("oops"), 0o644))

	err := s.EnsureModulePath(filepath.Join("net", "inner"))
	require.ErrorIs(t, err, ErrModulePathIsFile)
	assert.Contains(t, err.Error(), "/out/net")
}

func TestEnsureModulePath_MissingTopLevelDeclarationFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	s := NewScaffolder(fs, Layout{Root: "/out", TopLevelDeclaration: "lib.rs", DirectoryDeclaration: "mod.rs"}, logger.Discard())

	err := s.EnsureModulePath("net")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib.rs")
}

func TestLayout_DeclarationFileFor(t *testing.T) {
	l := Layout{Root: "/out", TopLevelDeclaration: "lib.rs", DirectoryDeclaration: "mod.rs"}
	assert.Equal(t, "/out/lib.rs", l.DeclarationFileFor("/out"))
	assert.Equal(t, "/out/lib.rs", l.DeclarationFileFor("/out/"))
	assert.Equal(t, "/out/net/mod.rs", l.DeclarationFileFor("/out/net"))
}
