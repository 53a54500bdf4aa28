package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	w, err := OpenRotating(path, 100)
	require.NoError(t, err)
	defer w.Close()

	line := []byte(strings.Repeat("x", 60) + "\n")
	for i := 0; i < 5; i++ {
		_, err := w.Write(line)
		require.NoError(t, err)
	}

	for _, name := range []string{path, path + ".1", path + ".2", path + ".3"} {
		assert.FileExists(t, name)
	}
	_, err = os.Stat(path + ".4")
	assert.True(t, os.IsNotExist(err), "only three archives are kept")

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, st.Size(), int64(100))
}

func TestOpenRotatingRotatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, make([]byte, 200), 0o644))

	w, err := OpenRotating(path, 100)
	require.NoError(t, err)
	defer w.Close()

	assert.FileExists(t, path+".1")
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, st.Size())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `a\nb\tc?`, Sanitize("a\nb\tc\x01", 0))
	assert.Equal(t, "abc...", Sanitize("abcdef", 3))
}
