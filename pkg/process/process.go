package process

import (
	"context"
	"sync"

	"github.com/tauraamui/pixrecord/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

type Settings struct {
	WaitForShutdownMsg string
	// Process launches the work and returns channels which are
	// closed once each piece of it has finished.
	Process func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

// Worker adapts a blocking function into a Settings.Process which runs it
// on its own goroutine until the context is cancelled.
func Worker(fn func(context.Context)) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		done := make(chan interface{})
		go func() {
			defer close(done)
			fn(ctx)
		}()
		return []chan interface{}{done}
	}
}

type process struct {
	mu                 sync.Mutex
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		return
	}
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller == nil {
		return
	}
	p.logShutdown()
	p.canceller()
	p.canceller = nil
}

func (p *process) Wait() {
	p.mu.Lock()
	signals := p.signals
	p.mu.Unlock()
	for _, sig := range signals {
		<-sig
	}
}
