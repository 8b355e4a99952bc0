package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "exports", "2025", "backup.json")

	require.NoError(t, EnsureParentDir(target))

	fi, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	// idempotent
	require.NoError(t, EnsureParentDir(target))
}

func TestEnsureParentDir_FailsUnderRegularFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureParentDir(filepath.Join(blocker, "sub", "file.json"))
	require.Error(t, err)
}

func TestWriteAtomic(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "out", "report.xlsx")

	require.NoError(t, WriteAtomic(target, []byte("first")))
	require.NoError(t, WriteAtomic(target, []byte("second")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}
