//go:build windows

package accel

import "golang.org/x/sys/windows"

type dllLibrary windows.Handle

func openLibrary(path string) (library, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return dllLibrary(h), nil
}

func (l dllLibrary) symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(l), name)
}

func (l dllLibrary) close() error {
	return windows.FreeLibrary(windows.Handle(l))
}
