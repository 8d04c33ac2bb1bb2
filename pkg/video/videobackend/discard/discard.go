// Package discard provides a backend which accepts every frame and keeps
// none of them. It offers no codecs, so it is selected by its own id.
package discard

import (
	"sync"

	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
)

const ID = "discard"

type Backend struct {
	videobackend.Unsupported
	mu      sync.Mutex
	target  string
	started bool
	written int
}

func New() *Backend { return &Backend{} }

func Factory() videobackend.Factory {
	return func() (videobackend.Backend, error) { return New(), nil }
}

func (b *Backend) Codecs() []string                { return nil }
func (b *Backend) CodecDescription(string) string { return "" }

func (b *Backend) SetCodec(codec string) error {
	return xerror.Errorf("%w: discard has no codecs", videobackend.ErrRejected)
}

func (b *Backend) Start(filename string, _ *videoprops.Properties) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target, b.started, b.written = filename, true, 0
	return nil
}

func (b *Backend) Write(frame *videoframe.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return videobackend.ErrNotStarted
	}
	b.written++
	return nil
}

func (b *Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		log.Debug("discarded %d frames meant for %s", b.written, b.target)
	}
	b.started = false
	return nil
}

// Written reports how many frames the current or last take swallowed.
func (b *Backend) Written() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written
}
