package translator

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/headersync/core/cache"
	"github.com/tristendillon/headersync/core/logger"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("exec translator tests need a POSIX shell")
	}
}

func TestHiddenTypesPattern(t *testing.T) {
	assert.Equal(t, "", HiddenTypesPattern(nil))
	assert.Equal(t, "^(atm_kptr_t|__kernel_fd_set)$", HiddenTypesPattern([]string{"atm_kptr_t", "__kernel_fd_set"}))
}

func TestError_Message(t *testing.T) {
	err := &Error{Header: "asm/weird.h", ExitCode: 1, Stderr: "fatal error: 'x.h' file not found\n", Err: errors.New("exit status 1")}
	assert.Equal(t, "failed to generate bindings for 'asm/weird.h' (exit 1): exit status 1\nfatal error: 'x.h' file not found", err.Error())
}

func TestExec_PassesWrapperAndVariables(t *testing.T) {
	requireShell(t)

	e := &Exec{
		Command:     `sh -c 'cat "$0"; printf "%s|%s|%s" "$1" "$2" "$3"' "$WRAPPER" "$HEADER" "$SOURCE_ROOT" "$HIDDEN_TYPES"`,
		SourceRoot:  "/usr/include",
		HiddenTypes: []string{"a", "b"},
		Log:         logger.Discard(),
	}

	out, err := e.Translate(context.Background(), "linux/if-tun.h")
	require.NoError(t, err)
	assert.Equal(t, "#include <linux/if-tun.h>\nlinux/if-tun.h|/usr/include|^(a|b)$", string(out))
}

func TestExec_NonZeroExitIsTranslationError(t *testing.T) {
	requireShell(t)

	e := &Exec{Command: `sh -c 'echo unsupported construct >&2; exit 3'`, Log: logger.Discard()}

	_, err := e.Translate(context.Background(), "asm/weird.h")
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, 3, tErr.ExitCode)
	assert.Equal(t, "asm/weird.h", tErr.Header)
	assert.Contains(t, tErr.Stderr, "unsupported construct")
}

func TestExec_EmptyOutputIsTranslationError(t *testing.T) {
	requireShell(t)

	e := &Exec{Command: `sh -c 'exit 0'`, Log: logger.Discard()}

	_, err := e.Translate(context.Background(), "empty.h")
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestExec_TimeoutIsTranslationError(t *testing.T) {
	requireShell(t)

	e := &Exec{Command: `sh -c 'sleep 5'`, Timeout: 50 * time.Millisecond, Log: logger.Discard()}

	_, err := e.Translate(context.Background(), "slow.h")
	var tErr *Error
	assert.ErrorAs(t, err, &tErr)
}

func TestExec_MissingBinaryIsHardError(t *testing.T) {
	e := &Exec{Command: "headersync-no-such-translator-binary", Log: logger.Discard()}

	_, err := e.Translate(context.Background(), "a.h")
	require.Error(t, err)
	var tErr *Error
	assert.False(t, errors.As(err, &tErr))
}

func TestExec_EmptyCommand(t *testing.T) {
	e := &Exec{Command: "  ", Log: logger.Discard()}
	_, err := e.Translate(context.Background(), "a.h")
	assert.Error(t, err)
}

func TestExec_WrapperIsRemoved(t *testing.T) {
	requireShell(t)

	e := &Exec{Command: `sh -c 'printf "%s" "$0"' "$WRAPPER"`, Log: logger.Discard()}
	out, err := e.Translate(context.Background(), "net/if.h")
	require.NoError(t, err)

	_, statErr := os.Stat(string(out))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCached_ServesRepeatTranslationsFromStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/net/if.h", []byte("struct ifreq {};"), 0o644))

	calls := 0
	next := Func(func(ctx context.Context, name string) ([]byte, error) {
		calls++
		return []byte("// " + name), nil
	})
	store, err := cache.NewMemory(16)
	require.NoError(t, err)

	c := &Cached{Next: next, Store: store, Fs: fs, SourceRoot: "/src", Fingerprint: "fake", Log: logger.Discard()}

	out, err := c.Translate(context.Background(), "net/if.h")
	require.NoError(t, err)
	assert.False(t, c.LastWasHit())

	again, err := c.Translate(context.Background(), "net/if.h")
	require.NoError(t, err)
	assert.True(t, c.LastWasHit())
	assert.Equal(t, out, again)
	assert.Equal(t, 1, calls)

	require.NoError(t, afero.WriteFile(fs, "/src/net/if.h", []byte("struct ifreq { int x; };"), 0o644))
	_, err = c.Translate(context.Background(), "net/if.h")
	require.NoError(t, err)
	assert.False(t, c.LastWasHit())
	assert.Equal(t, 2, calls)
}

func TestCached_FailuresAreNotStored(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/asm/weird.h", []byte("??"), 0o644))

	calls := 0
	next := Func(func(ctx context.Context, name string) ([]byte, error) {
		calls++
		return nil, &Error{Header: name, Err: ErrEmptyOutput}
	})
	store, err := cache.NewMemory(16)
	require.NoError(t, err)
	c := &Cached{Next: next, Store: store, Fs: fs, SourceRoot: "/src", Log: logger.Discard()}

	for i := 0; i < 2; i++ {
		_, err := c.Translate(context.Background(), "asm/weird.h")
		require.Error(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Stats().Entries)
}
