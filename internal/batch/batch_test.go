package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileDirCompilesEveryTcFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tc"), []byte("x = 1\nprint_int(x)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.tc"), []byte("y = 2\nprint_int(y)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not tinyc source"), 0o644))

	results, err := CompileDir(dir, 2)
	require.NoError(t, err)
	require.Len(t, results, 2, "only *.tc files should become jobs")

	for _, r := range results {
		require.NoError(t, r.Err)
		require.Contains(t, r.Assembly, ".globl main")
		require.NotEmpty(t, r.Job.ID)
	}
}

func TestCompileDirSurfacesPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tc"), []byte("x = y\n"), 0o644))

	results, err := CompileDir(dir, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err, "an unbound name should fail type checking")
}

func TestRunWithZeroWorkersFallsBackToOne(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tc"), []byte("x = 1\n"), 0o644))
	jobs, err := jobsForDir(dir)
	require.NoError(t, err)
	results := Run(jobs, 0)
	require.Len(t, results, 1)
}

func jobsForDir(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	for _, e := range entries {
		jobs = append(jobs, Job{ID: "test", Path: filepath.Join(dir, e.Name())})
	}
	return jobs, nil
}
