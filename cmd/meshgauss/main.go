// meshgauss converts textured triangle meshes into packed Gaussian mixtures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgauss/internal/config"
	"github.com/Faultbox/meshgauss/internal/logger"
	"github.com/Faultbox/meshgauss/pkg/mesh"
	"github.com/Faultbox/meshgauss/pkg/prng"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "sample":
		cmdSample(args)
	case "pack":
		cmdPack(args)
	case "run":
		cmdRun(args)
	case "ellipsoid":
		cmdEllipsoid(args)
	case "bake":
		cmdBake(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshgauss - textured mesh to Gaussian mixture converter

Usage:
  meshgauss <command> [options] <args>

Commands:
  info <mesh.yaml>                         Show mesh statistics
  sample [-o out] <mesh.yaml>              Sample surface points and seed means
  pack [-o out] <samples.yaml> <mix.yaml>  Pack an externally fitted mixture
  run [-o out] <mesh.yaml>                 Sample, fit coarsely and pack in one go
  ellipsoid -cov a,b,...,i [-o out]        Write a debug ellipsoid mesh
  bake [-o out.webp] <mesh.yaml>           Write the patched mesh texture
  config [-o path]                         Write the effective config

Shared options:
  -config path   Config file (default ./meshgauss.yaml, then the user config dir)
  -debug         Debug logging
  -seed N        Random seed
  -samples N     Number of surface samples
  -components K  Number of mixture components
  -scale S       Transform scale (ellipsoid: mesh scale)
  -workers N     Worker goroutines (0 = GOMAXPROCS)

Examples:
  meshgauss sample -seed 1 -o samples.yaml bunny.yaml
  meshgauss pack -scale 2 -o gaussians.yaml samples.yaml mixture.yaml
  meshgauss ellipsoid -cov 1,0,0,0,2,0,0,0,3 -o ellipsoid.yaml`)
}

// command is a parsed subcommand invocation.
type command struct {
	fs    *flag.FlagSet
	flags config.Flags
	cfg   *config.Config
}

// newCommand creates a flag set carrying the shared flags. Register
// command-specific flags on c.fs before calling parse.
func newCommand(name string) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	c.flags.Bind(c.fs)
	return c
}

// parse parses args, loads the config and initializes logging.
func (c *command) parse(args []string, minArgs int, usage string) {
	c.fs.Parse(args)
	c.flags.Parsed(c.fs)

	if c.fs.NArg() < minArgs {
		fmt.Fprintf(os.Stderr, "Usage: meshgauss %s\n", usage)
		os.Exit(1)
	}

	cfg, err := config.Load(&c.flags)
	if err != nil {
		fail(err)
	}
	c.cfg = cfg

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	logger.Debug("config loaded", zap.String("command", c.fs.Name()), zap.Any("config", cfg))
}

// key returns the root random key for the configured seed.
func (c *command) key() prng.Key {
	return prng.NewKey(c.cfg.Sampling.Seed)
}

// filter returns the texture filter override, if any.
func (c *command) filter() *mesh.Filter {
	f, ok, _ := c.cfg.Filter()
	if !ok {
		return nil
	}
	return &f
}

// context returns a context canceled on interrupt.
func (c *command) context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func fail(err error) {
	logger.Error("command failed", zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
