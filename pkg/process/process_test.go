package process_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/process"
)

func overloadInfoLog(overload func(string, ...interface{})) func() {
	logInfoRef := log.Info
	log.Info = overload
	return func() { log.Info = logInfoRef }
}

func TestWorkerRunsUntilStopped(t *testing.T) {
	is := is.New(t)
	infoLogs := []string{}
	reset := overloadInfoLog(func(format string, a ...interface{}) {
		infoLogs = append(infoLogs, fmt.Sprintf(format, a...))
	})
	defer reset()

	var running int32
	started := make(chan struct{})
	proc := process.New(process.Settings{
		WaitForShutdownMsg: "Stopping test worker...",
		Process: process.Worker(func(ctx context.Context) {
			atomic.StoreInt32(&running, 1)
			close(started)
			<-ctx.Done()
			atomic.StoreInt32(&running, 0)
		}),
	}).Setup()

	proc.Start()
	<-started
	is.Equal(atomic.LoadInt32(&running), int32(1))

	proc.Stop()
	proc.Wait()
	is.Equal(atomic.LoadInt32(&running), int32(0))
	is.Equal(infoLogs, []string{"Stopping test worker..."})
}

func TestStopIsIdempotentAndStartOnce(t *testing.T) {
	is := is.New(t)
	var launches int32
	proc := process.New(process.Settings{
		Process: func(ctx context.Context) []chan interface{} {
			atomic.AddInt32(&launches, 1)
			return process.Worker(func(ctx context.Context) { <-ctx.Done() })(ctx)
		},
	})

	proc.Start()
	proc.Start()
	proc.Stop()
	proc.Stop()
	proc.Wait()
	is.Equal(atomic.LoadInt32(&launches), int32(1))
}

func TestWaitWithoutStartReturns(t *testing.T) {
	proc := process.New(process.Settings{Process: process.Worker(func(context.Context) {})})
	proc.Wait()
	proc.Stop()
}
