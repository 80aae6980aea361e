// Package main implements a CHIP-8 emulator with an SDL front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/retroenv/retrogolib/app"
	"github.com/tliron/commonlog"

	"github.com/adrichey/chip8vm/config"
	"github.com/adrichey/chip8vm/emulator"
	"github.com/adrichey/chip8vm/platform"
	"github.com/adrichey/chip8vm/runner"

	_ "github.com/tliron/commonlog/simple"
)

const WINDOW_TITLE = "Chip8 Emulator"

type optionFlags struct {
	input      string
	configFile string
	scale      int
	delay      time.Duration

	debug    bool
	quiet    bool
	headless bool
	cycles   uint64

	shiftUsesVy bool
	wrapSprites bool
}

// SDL calls have to come from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	options, set := readArguments()

	verbosity := 1
	if options.quiet {
		verbosity = 0
	}
	if options.debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("chip8")

	if err := runFile(options, set); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func readArguments() (optionFlags, map[string]bool) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}
	defaults := config.Default()

	flags.StringVar(&options.configFile, "config", "", "TOML configuration file")
	flags.IntVar(&options.scale, "scale", defaults.Scale, "window pixels per CHIP-8 pixel")
	flags.DurationVar(&options.delay, "delay", defaults.Delay.Duration, "minimum time between cycles")
	flags.BoolVar(&options.debug, "debug", false, "log every executed instruction")
	flags.BoolVar(&options.quiet, "q", false, "only log errors")
	flags.BoolVar(&options.headless, "headless", false, "run without a window and print the screen when done")
	flags.Uint64Var(&options.cycles, "cycles", 0, "stop after this many cycles, 0 runs forever")
	flags.BoolVar(&options.shiftUsesVy, "shift-vy", false, "8xy6/8xyE shift Vy into Vx")
	flags.BoolVar(&options.wrapSprites, "wrap", false, "wrap sprites around the screen edges instead of clipping")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) != 1 {
		fmt.Printf("usage: chip8vm [options] <rom file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return options, set
}

// loadConfig reads the configuration file, then applies the flags given on the command line.
func loadConfig(options optionFlags, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if options.configFile != "" {
		var err error
		if cfg, err = config.Load(options.configFile); err != nil {
			return cfg, err
		}
	}

	if set["scale"] {
		cfg.Scale = options.scale
	}
	if set["delay"] {
		cfg.Delay.Duration = options.delay
	}
	if set["shift-vy"] {
		cfg.Quirks.ShiftUsesVy = options.shiftUsesVy
	}
	if set["wrap"] {
		cfg.Quirks.WrapSprites = options.wrapSprites
	}
	return cfg, cfg.Validate()
}

func runFile(options optionFlags, set map[string]bool) error {
	log := commonlog.GetLogger("chip8")

	cfg, err := loadConfig(options, set)
	if err != nil {
		return err
	}

	c8 := emulator.New(
		emulator.WithQuirks(cfg.Quirks),
		emulator.WithTrace(options.debug),
	)
	if err := c8.LoadFile(options.input); err != nil {
		return err
	}
	log.Infof("loaded %s, quirks %+v", options.input, cfg.Quirks)

	ctx := app.Context()

	runOpts := runner.Options{
		CycleDelay: cfg.Delay.Duration,
		MaxCycles:  options.cycles,
	}

	if options.headless {
		if runOpts.MaxCycles == 0 {
			return errors.New("-headless needs -cycles")
		}
		err := runner.Run(ctx, c8, headless{}, headless{}, runOpts)
		fmt.Print(c8.Video().String())
		return err
	}

	foreground, background, err := cfg.Palette.RGBA8888()
	if err != nil {
		return err
	}

	scale := int32(cfg.Scale)
	width, height := int32(emulator.VIDEO_WIDTH), int32(emulator.VIDEO_HEIGHT)
	p, err := platform.New(WINDOW_TITLE, width*scale, height*scale, width, height, platform.Options{
		Foreground: foreground,
		Background: background,
		Keys:       cfg.Keys,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	err = runner.Run(ctx, c8, p, p, runOpts)
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return err
}

// headless stands in for the platform when no window is wanted.
type headless struct{}

func (headless) Update(*emulator.Screen, int) error {
	return nil
}

func (headless) ProcessInput(*[emulator.KEY_COUNT]bool) runner.Event {
	return runner.EventNone
}
