package accel

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// machine names the native build uses in architecture-suffixed file names.
var machine = map[string]string{
	"amd64": "x86_64",
	"386":   "i686",
	"arm64": "aarch64",
}

func machineName(goos, goarch string) string {
	if goos == "darwin" && goarch == "arm64" {
		return "arm64"
	}
	if m, ok := machine[goarch]; ok {
		return m
	}
	return goarch
}

// Candidates lists the file names a native module may ship under on goos and
// goarch, most preferred first.
func Candidates(module, goos, goarch string) ([]string, error) {
	m := machineName(goos, goarch)
	switch goos {
	case "windows":
		return []string{module + ".dll", module + ".pyd"}, nil
	case "linux", "freebsd":
		return []string{module + ".so", module + "_" + m + ".so"}, nil
	case "darwin":
		return []string{
			module + ".so",
			module + ".dylib",
			module + "_" + m + ".so",
			module + "_" + m + ".dylib",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
}

// SearchDirs expands roots into the directories searched, in order: each
// root's native subdirectory, then the root itself.
func SearchDirs(roots []string) []string {
	dirs := make([]string, 0, 2*len(roots))
	for _, root := range roots {
		dirs = append(dirs, filepath.Join(root, "native"), root)
	}
	return dirs
}

// Locate finds the native module for the running platform under roots.
func Locate(module string, roots []string) (string, error) {
	return LocateFor(module, roots, runtime.GOOS, runtime.GOARCH)
}

// LocateFor finds the first existing candidate file of module for goos and
// goarch. Directories are searched before names: a plain module in native/
// wins over an arch-suffixed one in the root.
func LocateFor(module string, roots []string, goos, goarch string) (string, error) {
	names, err := Candidates(module, goos, goarch)
	if err != nil {
		return "", err
	}
	dirs := SearchDirs(roots)
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s (tried %s in %s)", ErrModuleNotFound, module,
		strings.Join(names, ", "), strings.Join(dirs, ", "))
}
