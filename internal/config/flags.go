package config

import "flag"

// Flags are the command-line overrides shared by every subcommand.
type Flags struct {
	Config     string
	Debug      bool
	Seed       uint64
	Samples    int
	Components int
	Scale      float64
	Workers    int

	set map[string]bool
}

// Bind registers the shared flags on fs.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Uint64Var(&f.Seed, "seed", 0, "Random seed")
	fs.IntVar(&f.Samples, "samples", 0, "Number of surface samples")
	fs.IntVar(&f.Components, "components", 0, "Number of mixture components")
	fs.Float64Var(&f.Scale, "scale", 0, "Transform scale factor")
	fs.IntVar(&f.Workers, "workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
}

// Parsed records which flags fs actually received. Call it after fs.Parse.
func (f *Flags) Parsed(fs *flag.FlagSet) {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
}

// IsSet reports whether the named flag was given on the command line.
func (f *Flags) IsSet(name string) bool {
	return f.set[name]
}

// apply applies command-line overrides to the config. Only flags that
// were given override, so an explicit -seed 0 still wins over the file.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.IsSet("seed") {
		cfg.Sampling.Seed = f.Seed
	}
	if f.IsSet("samples") {
		cfg.Sampling.Samples = f.Samples
	}
	if f.IsSet("components") {
		cfg.Mixture.Components = f.Components
	}
	if f.IsSet("scale") {
		cfg.Packing.Scale = f.Scale
	}
	if f.IsSet("workers") {
		cfg.Packing.Workers = f.Workers
	}
}
