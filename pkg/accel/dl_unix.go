//go:build darwin || linux || freebsd

package accel

import "github.com/ebitengine/purego"

type dlLibrary uintptr

func openLibrary(path string) (library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return dlLibrary(h), nil
}

func (l dlLibrary) symbol(name string) (uintptr, error) {
	return purego.Dlsym(uintptr(l), name)
}

func (l dlLibrary) close() error {
	return purego.Dlclose(uintptr(l))
}
