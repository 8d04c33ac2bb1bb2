package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/pixrecord/pkg/config"
	"github.com/tauraamui/pixrecord/pkg/configdef"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/recorder"
	"github.com/tauraamui/pixrecord/pkg/studio"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/builtin"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/imageseq"
	"github.com/tauraamui/pixrecord/pkg/video/videoplayer"
	"github.com/tauraamui/pixrecord/pkg/video/videoplayer/pattern"
	"github.com/tauraamui/pixrecord/pkg/video/videoset"
	"golang.org/x/term"
)

var fs = afero.NewOsFs()

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the render loop and read commands from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.DefaultResolver().Resolve()
			if err != nil {
				return err
			}
			if cfg.Debug {
				logging.CurrentLoggingLevel = logging.DebugLevel
			}
			return run(cmd.Context(), cfg)
		},
	}
}

func run(ctx context.Context, cfg configdef.Values) error {
	_, set, err := buildSet(cfg)
	if err != nil {
		return err
	}

	out := newPrinter(os.Stdout)
	rec := recorder.New(set, out)
	defer rec.Close() //nolint

	props, err := cfg.PropertySet()
	if err != nil {
		return err
	}
	rec.SetProperties(props)
	if len(cfg.Codec) > 0 {
		if err := rec.Codec(cfg.Codec); err != nil {
			log.Error("unable to select configured codec '%s': %v", cfg.Codec, err)
		}
	}
	rec.Auto(cfg.AutoCapture())

	player, err := buildPlayer(cfg.Playback)
	if err != nil {
		return err
	}
	loop := studio.New(rec, player, out, studio.Settings{FPS: cfg.FPS})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	proc := loop.Process()
	proc.Start()

	con := console{
		in:        os.Stdin,
		out:       os.Stdout,
		outputDir: cfg.OutputDir,
		prompt:    term.IsTerminal(int(os.Stdin.Fd())),
		submit:    loop.Submit,
	}
	lines := make(chan struct{})
	go func() {
		con.serve(ctx)
		close(lines)
	}()

	select {
	case killSignal := <-interrupt:
		fmt.Print("\r")
		log.Error("Received signal: %s", killSignal)
	case <-lines:
		log.Info("Console closed...")
	}

	cancel()
	proc.Stop()
	proc.Wait()
	return nil
}

func buildSet(cfg configdef.Values) (*videobackend.Registry, *videoset.Set, error) {
	reg := builtin.Registry(builtin.WithDatabase(cfg.Database))
	if err := reg.Load(videobackend.PluginDirLoader{Dir: cfg.PluginDir, Fs: fs}); err != nil {
		log.Warn("some record plugins failed to load: %v", err)
	}
	set := videoset.New(reg)
	if !set.AddPreferred(cfg.Backends...) {
		return nil, nil, fmt.Errorf("no record backend could be instantiated")
	}
	return reg, set, nil
}

// buildPlayer returns a nil Player interface when there is nothing to play.
func buildPlayer(cfg configdef.Playback) (studio.Player, error) {
	settings := videoplayer.Settings{Threaded: cfg.Threaded, Step: cfg.Step}
	switch cfg.Source {
	case configdef.SourceImages:
		codec := cfg.Codec
		if len(codec) == 0 {
			codec = "png"
		}
		src, err := imageseq.Open(fs, cfg.Path, codec)
		if err != nil {
			return nil, err
		}
		return videoplayer.New(src, settings), nil
	case "", configdef.SourcePattern:
		if cfg.Frames == 0 {
			return nil, nil
		}
		src, err := pattern.New(pattern.Settings{
			Frames: cfg.Frames,
			Width:  cfg.Width,
			Height: cfg.Height,
			Label:  cfg.Label,
		})
		if err != nil {
			return nil, err
		}
		log.Debug("playing pattern source %s", src.ID())
		return videoplayer.New(src, settings), nil
	}
	return nil, fmt.Errorf("unknown playback source '%s'", cfg.Source)
}
