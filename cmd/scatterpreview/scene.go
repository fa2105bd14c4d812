package main

import (
	"fmt"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/internal/scenefile"
)

// openDialog asks for a scene file without blocking the render loop. The
// pick is loaded on the main thread by run.
func (a *app) openDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Scene documents", "yaml", "yml", "toml").
			Filter("All Files", "*").
			Title("Open Scene").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				a.log.Warn("file dialog", zap.Error(err))
			}
			return
		}
		select {
		case a.opened <- path:
		default:
		}
	}()
}

// loadScene replaces the instances with the world matrices of the scene's
// objects. Objects without a matrix are skipped.
func (a *app) loadScene(path string) error {
	f, err := scenefile.Load(path)
	if err != nil {
		return err
	}

	flat := make([]float32, 0, len(f.Objects)*16)
	n := 0
	for _, obj := range f.Objects {
		if obj.Matrix == nil {
			continue
		}
		flat = append(flat, obj.Matrix[:]...)
		n++
	}
	if err := a.manager.ReplaceTransforms(flat, n); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a.log.Info("scene loaded", zap.String("path", path), zap.Int("instances", n), zap.Int("objects", len(f.Objects)))
	return a.newGhost()
}

func (a *app) screenshot() {
	w, h := a.window.Size()
	path, err := a.shots.Capture(w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
