// scattertool runs the scatter core against scene documents from the command
// line. Results are printed as YAML on stdout; logs go to stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/internal/config"
	"github.com/Faultbox/physical-layout/internal/logger"
	"github.com/Faultbox/physical-layout/internal/scenefile"
	"github.com/Faultbox/physical-layout/pkg/accel"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "analyze":
		err = cmdAnalyze(args)
	case "bake":
		err = cmdBake(args)
	case "rigid":
		err = cmdRigid(args)
	case "marker":
		err = cmdMarker(args)
	case "sample":
		err = cmdSample(args)
	case "prepare":
		err = cmdPrepare(args)
	case "locate":
		err = cmdLocate(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scattertool - scatter instruction engine and geometry utility

Usage:
  scattertool <command> [options]

Commands:
  analyze <scene>          Classify candidates into scatter instructions
  bake <scene> [names]     Prepare objects for a static bake
  rigid <scene> [names]    Snapshot or configure rigid bodies
  marker                   Tessellate the circle marker
  sample                   Draw random placement transforms
  prepare <mesh>           Validate and shape raw mesh arrays
  locate [roots]           Find the native accelerator library

Common options:
  -config <file>           Tool config (.yaml or .toml)
  -native                  Use the native accelerator when it loads
  -debug                   Debug logging

Examples:
  scattertool analyze -instancing scene.yaml
  scattertool analyze -apply out.yaml scene.toml
  scattertool bake -target STATIC scene.yaml RockA RockB
  scattertool sample -n 5 -seed 42
  scattertool locate ./addon`)
}

// env is what every command gets from its common flags.
type env struct {
	cfg *config.Config
	acc accel.Accelerator
	log *zap.Logger
}

type commonFlags struct {
	config *string
	debug  *bool
	native *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config: fs.String("config", "", "Path to config file"),
		debug:  fs.Bool("debug", false, "Enable debug logging"),
		native: fs.Bool("native", false, "Load the native accelerator"),
	}
}

// setup loads the config, starts logging and selects the accelerator.
func (c commonFlags) setup(command string) (*env, error) {
	cfg, err := config.LoadFrom(*c.config)
	if err != nil {
		return nil, err
	}
	if *c.debug {
		cfg.Logging.Level = "debug"
	}
	if *c.native {
		cfg.Accelerator.Native = true
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.File, os.Stderr); err != nil {
		return nil, err
	}
	log := logger.Named(command)
	acc := accel.Select(cfg.Accelerator.Options(cfg.Sampling), logger.Named("accel"))
	log.Debug("accelerator selected", zap.String("impl", acc.Name()))
	return &env{cfg: cfg, acc: acc, log: log}, nil
}

func (e *env) close() {
	if err := e.acc.Close(); err != nil {
		e.log.Warn("closing accelerator", zap.Error(err))
	}
}

func printYAML(v any) error {
	data, err := scenefile.Marshal(v)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
