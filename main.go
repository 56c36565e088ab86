/*
This is an example of application that will use the
engine package to play a screen wipe
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/screenwipe/engine"
	"github.com/spaghettifunk/screenwipe/engine/assets"
	"github.com/spaghettifunk/screenwipe/engine/core"
	"github.com/spaghettifunk/screenwipe/engine/wipe"
	"github.com/spaghettifunk/screenwipe/testbed"
)

func main() {
	configPath := flag.String("config", "wipe.toml", "application config file; missing means defaults")
	wipeName := flag.String("wipe", "", "wipe to play, overrides the config")
	generate := flag.String("generate", "", "write the demo masks to this wad and exit")
	frames := flag.Int("frames", 16, "frames per generated wipe")
	width := flag.Uint("mask-width", 320, "generated mask width")
	height := flag.Uint("mask-height", 200, "generated mask height")
	flag.Parse()

	if *generate != "" {
		if err := generateWad(*generate, *frames, uint32(*width), uint32(*height)); err != nil {
			core.LogFatal(err.Error())
		}
		return
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if *wipeName != "" {
		config.Wipe = *wipeName
	}

	tb, err := testbed.NewTestGame(config)
	if err != nil {
		core.LogFatal(err.Error())
	}

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal(err.Error())
	}

	// run engine
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}

func loadConfig(path string) (*engine.ApplicationConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		core.LogWarn("config '%s' not found, using defaults", path)
		return engine.DefaultConfig(), nil
	}
	return engine.LoadConfig(path)
}

func generateWad(path string, frames int, width, height uint32) error {
	if _, ok := wipe.MaskLength(width, height); !ok {
		return fmt.Errorf("%dx%d is not a mask resolution", width, height)
	}
	store, err := wipe.GenerateStore(0, frames, width, height)
	if err != nil {
		return err
	}
	lumps := store.Lumps()
	if err := assets.SaveWad(path, lumps); err != nil {
		return err
	}
	core.LogInfo("wrote %d mask lumps to '%s'", len(lumps), path)
	return nil
}
