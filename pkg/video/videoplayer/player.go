package videoplayer

import (
	"context"
	"sync/atomic"

	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/process"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videolatch"
)

// Source decodes frames by index. A nil frame with a nil error means
// there is no image at that index.
type Source interface {
	NumFrames() int
	Frame(i int) (*videoframe.Frame, error)
}

type Settings struct {
	// Threaded decodes on a worker goroutine, the render loop then only
	// picks up whatever the worker last published.
	Threaded bool
	Step     int
}

// Player feeds frames of a Source to the render loop. Render, PostRender,
// Seek, Auto and OnEnd belong to the render goroutine.
type Player struct {
	src      Source
	threaded bool
	latch    videolatch.Latch
	request  int64
	kick     chan struct{}
	proc     process.Process

	step     int
	onEnd    func(int)
	holding  bool
	advance  bool
	cached   *videoframe.Frame
	cachedAt int64
}

func New(src Source, settings Settings) *Player {
	p := &Player{
		src:      src,
		threaded: settings.Threaded,
		step:     settings.Step,
		kick:     make(chan struct{}, 1),
		cachedAt: -1,
	}
	if p.threaded {
		p.proc = process.New(process.Settings{
			WaitForShutdownMsg: "Stopping playback decoder...",
			Process:            process.Worker(p.decode),
		})
	}
	return p
}

// Start launches the decoder goroutine of a threaded player.
func (p *Player) Start() {
	if p.proc == nil {
		return
	}
	p.proc.Start()
	p.signal()
}

func (p *Player) Stop() {
	if p.proc == nil {
		return
	}
	p.proc.Stop()
	p.proc.Wait()
}

func (p *Player) signal() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Player) decode(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.kick:
			req := int(atomic.LoadInt64(&p.request))
			p.latch.Publish(p.fetch(req))
		}
	}
}

func (p *Player) fetch(i int) *videoframe.Frame {
	frame, err := p.src.Frame(i)
	if err != nil {
		log.Error("unable to decode frame %d: %v", i, err)
		return nil
	}
	return frame
}

func (p *Player) NumFrames() int { return p.src.NumFrames() }

// Request is the index the player is going to show next.
func (p *Player) Request() int { return int(atomic.LoadInt64(&p.request)) }

func (p *Player) Seek(i int) {
	atomic.StoreInt64(&p.request, int64(i))
	if !p.threaded {
		p.cachedAt = -1
	}
	p.signal()
}

// Auto advances the request by step after each rendered frame, 0 stops.
func (p *Player) Auto(step int) { p.step = step }

// OnEnd registers the handler told about the end of the stream. It runs
// on the render goroutine and may Seek.
func (p *Player) OnEnd(fn func(int)) { p.onEnd = fn }

// Render returns the frame to show this tick, or nil when there is none.
func (p *Player) Render() *videoframe.Frame {
	req := atomic.LoadInt64(&p.request)

	var (
		frame *videoframe.Frame
		fresh bool
	)
	if p.threaded {
		frame, fresh = p.latch.Acquire()
		p.holding = true
	} else {
		frame, fresh = p.direct(req)
	}

	if frame == nil {
		if fresh {
			p.end(p.endValue(req))
		}
		if now := atomic.LoadInt64(&p.request); now != req {
			frame = p.fetch(int(now))
			if frame != nil {
				p.cached, p.cachedAt = frame, now
				fresh = true
			}
		}
	}

	p.advance = frame != nil && fresh
	return frame
}

func (p *Player) direct(req int64) (*videoframe.Frame, bool) {
	if req == p.cachedAt {
		return p.cached, false
	}
	frame := p.fetch(int(req))
	p.cached, p.cachedAt = frame, req
	return frame, true
}

// endValue is the last index before req, kept inside the stream.
func (p *Player) endValue(req int64) int {
	if req <= 0 {
		return 0
	}
	end := int(req - 1)
	if last := p.src.NumFrames() - 1; end > last {
		end = last
	}
	if end < 0 {
		end = 0
	}
	return end
}

func (p *Player) end(value int) {
	log.Debug("playback reached end at %d", value)
	if p.onEnd != nil {
		p.onEnd(value)
	}
}

// PostRender releases the latch taken by Render and applies auto advance.
func (p *Player) PostRender() {
	if p.holding {
		p.holding = false
		p.latch.Release()
	}
	if p.advance && p.step != 0 {
		p.advance = false
		p.Seek(p.Request() + p.step)
	}
}

// Fresh reports whether a threaded player has a frame waiting.
func (p *Player) Fresh() bool {
	return p.latch.Fresh()
}

func (p *Player) Stats() videolatch.Stats {
	return p.latch.Stats()
}
