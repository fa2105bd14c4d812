package accel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         []string
	}{
		{"windows", "amd64", []string{"scatter_accel.dll", "scatter_accel.pyd"}},
		{"linux", "amd64", []string{"scatter_accel.so", "scatter_accel_x86_64.so"}},
		{"linux", "arm64", []string{"scatter_accel.so", "scatter_accel_aarch64.so"}},
		{"darwin", "arm64", []string{
			"scatter_accel.so", "scatter_accel.dylib",
			"scatter_accel_arm64.so", "scatter_accel_arm64.dylib",
		}},
		{"darwin", "amd64", []string{
			"scatter_accel.so", "scatter_accel.dylib",
			"scatter_accel_x86_64.so", "scatter_accel_x86_64.dylib",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := Candidates(DefaultModule, tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Candidates(DefaultModule, "plan9", "amd64")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{0x7f, 'E', 'L', 'F'}, 0o644))
}

func TestLocateForSearchOrder(t *testing.T) {
	root := t.TempDir()

	_, err := LocateFor("mod", []string{root}, "linux", "amd64")
	assert.ErrorIs(t, err, ErrModuleNotFound)

	touch(t, filepath.Join(root, "mod.so"))
	got, err := LocateFor("mod", []string{root}, "linux", "amd64")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "mod.so"), got)

	touch(t, filepath.Join(root, "native", "mod_x86_64.so"))
	got, err = LocateFor("mod", []string{root}, "linux", "amd64")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "native", "mod_x86_64.so"), got, "native/ is searched first")
}

func TestLocateForSkipsDirectoriesAndLaterRoots(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(first, "mod.dll"), 0o755))
	touch(t, filepath.Join(second, "native", "mod.pyd"))

	got, err := LocateFor("mod", []string{first, second}, "windows", "amd64")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "native", "mod.pyd"), got)
}

func TestSearchDirs(t *testing.T) {
	assert.Equal(t,
		[]string{filepath.Join("a", "native"), "a", filepath.Join("b", "native"), "b"},
		SearchDirs([]string{"a", "b"}))
	assert.Empty(t, SearchDirs(nil))
}
