package studio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/process"
	"github.com/tauraamui/pixrecord/pkg/recorder"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
)

// Player is the frame source rendered on every tick.
type Player interface {
	Render() *videoframe.Frame
	PostRender()
	Seek(i int)
	Auto(step int)
	OnEnd(func(int))
	Start()
	Stop()
}

type Settings struct {
	FPS int
}

type command struct {
	line   string
	result chan error
}

// Loop is the single control goroutine: it renders a tick at a fixed
// rate and runs console commands between ticks.
type Loop struct {
	id       string
	rec      *recorder.Recorder
	player   Player
	out      recorder.Outlet
	interval time.Duration
	commands chan command
	ticks    uint64
}

func New(rec *recorder.Recorder, player Player, out recorder.Outlet, settings Settings) *Loop {
	fps := settings.FPS
	if fps <= 0 {
		fps = 25
	}
	l := &Loop{
		id:       uuid.NewString(),
		rec:      rec,
		player:   player,
		out:      out,
		interval: time.Second / time.Duration(fps),
		commands: make(chan command),
	}
	if player != nil {
		player.OnEnd(func(end int) { out.Info("end", end) })
		rec.SetPlayback(player)
	}
	return l
}

func (l *Loop) ID() string { return l.id }

// Submit hands a command line to the loop and waits for its outcome.
func (l *Loop) Submit(ctx context.Context, line string) error {
	cmd := command{line: line, result: make(chan error, 1)}
	select {
	case l.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick renders one frame from the player into the recorder.
func (l *Loop) Tick() {
	l.ticks++
	if l.player == nil {
		return
	}
	frame := l.player.Render()
	if err := l.rec.Render(frame); err != nil {
		log.Error("loop %s tick %d: %v", l.id, l.ticks, err)
	}
	l.player.PostRender()
}

// Run blocks until ctx is cancelled. Any take still open is stopped on exit.
func (l *Loop) Run(ctx context.Context) {
	if l.player != nil {
		l.player.Start()
		defer l.player.Stop()
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.rec.Stop()

	log.Debug("loop %s rendering every %s", l.id, l.interval)
	for {
		select {
		case <-ctx.Done():
			log.Debug("loop %s finished after %d ticks", l.id, l.ticks)
			return
		case <-ticker.C:
			l.Tick()
		case cmd := <-l.commands:
			err := l.rec.Dispatch(cmd.line)
			if err != nil {
				log.Debug("loop %s command '%s': %v", l.id, cmd.line, err)
			}
			cmd.result <- err
		}
	}
}

// Process wraps Run in the process lifecycle.
func (l *Loop) Process() process.Process {
	return process.New(process.Settings{
		WaitForShutdownMsg: "Stopping render loop...",
		Process:            process.Worker(l.Run),
	})
}
