package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
	require.True(t, Exists(path))
	require.True(t, Exists(dir))
}
