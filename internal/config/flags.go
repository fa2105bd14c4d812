package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagNative     = flag.Bool("native", false, "Load the native accelerator")
	flagSeed       = flag.Uint64("seed", 0, "Random seed for transform sampling (0 = time)")
	flagInstancing = flag.Bool("instancing", false, "Scatter as mesh instances")
	flagRigid      = flag.Bool("rigid", false, "Add rigid bodies to static objects")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagNative {
		cfg.Accelerator.Native = true
	}
	if *flagSeed != 0 {
		cfg.Sampling.Seed = *flagSeed
	}
	if *flagInstancing {
		cfg.Processing.ModeIsInstancing = true
	}
	if *flagRigid {
		cfg.Processing.ApplyRigidBodyStatic = true
	}
}
