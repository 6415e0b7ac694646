package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const marker = "FarmWthrMgmt.xlsx"

func mkdirs(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		require.NoError(t, os.MkdirAll(filepath.Join(root, r), 0o755))
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindStudyAreas_OnlyDirectoriesHoldingMarker(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	mkdirs(t, root, "alpha", "beta", "gamma")
	touch(t, filepath.Join(root, "alpha", marker))
	touch(t, filepath.Join(root, "gamma", marker))
	touch(t, filepath.Join(root, "beta", "other.xlsx"))

	got, err := FindStudyAreas(root, marker)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "gamma"),
	}, got)
}

func TestFindStudyAreas_Nested(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	touch(t, filepath.Join(root, "Study A", "Farm 1", marker))
	touch(t, filepath.Join(root, "Study A", "Farm 2", "notes.txt"))

	got, err := FindStudyAreas(root, marker)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "Study A", "Farm 1")}, got)
}

func TestFindStudyAreas_MarkerDirectoryDoesNotCount(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	mkdirs(t, root, filepath.Join("s", marker))

	got, err := FindStudyAreas(root, marker)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindStudyAreas_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := FindStudyAreas(filepath.Join(t.TempDir(), "absent"), marker)
	require.Error(t, err)
}

func TestResolveDirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	study := filepath.Join(root, "study")
	mkdirs(t, study, "farm_b", "farm_a")
	touch(t, filepath.Join(study, "aaa_file"))

	t.Run("existing candidate is returned unchanged", func(t *testing.T) {
		candidate := filepath.Join(study, "farm_b")
		got, ok := ResolveDirectory(candidate, study)
		require.True(t, ok)
		require.Equal(t, candidate, got)
	})

	t.Run("stale candidate falls back to first subdirectory", func(t *testing.T) {
		got, ok := ResolveDirectory(filepath.Join(root, "gone"), study)
		require.True(t, ok)
		require.Equal(t, filepath.Join(study, "farm_a"), got)

		// Same filesystem state, same answer.
		again, _ := ResolveDirectory(filepath.Join(root, "gone"), study)
		require.Equal(t, got, again)
	})

	t.Run("no subdirectories", func(t *testing.T) {
		empty := filepath.Join(root, "empty")
		mkdirs(t, root, "empty")
		touch(t, filepath.Join(empty, "file.txt"))
		got, ok := ResolveDirectory(filepath.Join(root, "gone"), empty)
		require.False(t, ok)
		require.Empty(t, got)
	})

	t.Run("missing fallback parent", func(t *testing.T) {
		_, ok := ResolveDirectory("", filepath.Join(root, "nowhere"))
		require.False(t, ok)
	})
}
