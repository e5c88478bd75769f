package walker

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/headersync/core/logger"
)

func writeFiles(t *testing.T, fs afero.Fs, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
}

func TestWalk_DepthFirstLexicalOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/src/z.h",
		"/src/net/route.h",
		"/src/net/if.h",
		"/src/asm/deep/x.h",
		"/src/asm/a.h",
		"/src/README",
	)

	w := NewTreeWalker(fs, logger.Discard())
	got, err := w.Walk("/src")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/src/README",
		"/src/asm/a.h",
		"/src/asm/deep/x.h",
		"/src/net/if.h",
		"/src/net/route.h",
		"/src/z.h",
	}, got)
}

func TestWalk_LogsEveryDirectoryAndFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src/net/if.h")

	var sink bytes.Buffer
	log := logger.Discard()
	log.AddSink(&sink)

	_, err := NewTreeWalker(fs, log).Walk("/src")
	require.NoError(t, err)

	assert.Contains(t, sink.String(), "Found dir: /src\n")
	assert.Contains(t, sink.String(), "Found dir: /src/net\n")
	assert.Contains(t, sink.String(), "Found file: /src/net/if.h\n")
}

func TestWalk_EmptyRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0o755))

	got, err := NewTreeWalker(fs, logger.Discard()).Walk("/src")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWalk_MissingRootFails(t *testing.T) {
	_, err := NewTreeWalker(afero.NewMemMapFs(), logger.Discard()).Walk("/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope")
}

func TestWalk_FollowsSymlinkedDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.h"), []byte("x"), 0o644))
	root := filepath.Join(dir, "root")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "linked")))

	got, err := NewTreeWalker(afero.NewOsFs(), logger.Discard()).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "linked", "a.h")}, got)
}
