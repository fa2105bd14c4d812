// scatterpreview opens a window with a scattered field of instances. The
// marker and a ghost instance follow the cursor; clicking commits the ghost.
//
// Usage: scatterpreview [flags] [scene.yaml]
//
// A scene argument, or one picked with O, replaces the field with the world
// matrices of its objects. Mouse: left click places, right drag orbits, wheel
// zooms. Keys: R rescatters, C clears, G toggles the ghost, P saves a
// screenshot, Esc quits.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/internal/config"
	"github.com/Faultbox/physical-layout/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.File, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== scatter preview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("failed to start preview", zap.Error(err))
		os.Exit(1)
	}
	defer a.close()

	if path := flag.Arg(0); path != "" {
		a.opened <- path
	}

	if err := a.run(); err != nil {
		logger.Error("preview error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("preview closed normally")
}
