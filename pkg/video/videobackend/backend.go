package videobackend

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
)

var fs = afero.NewOsFs()

// Backend is a record plugin, something that can encode a
// stream of frames into a file (or any other named target).
type Backend interface {
	// Codecs may be empty, the backend is then treated as
	// offering a single implicit codec.
	Codecs() []string
	CodecDescription(codec string) string
	SetCodec(codec string) error
	Start(filename string, props *videoprops.Properties) error
	Write(frame *videoframe.Frame) error
	// Stop is best effort, callers consider the backend stopped
	// regardless of the returned error.
	Stop() error
	EnumProperties(props *videoprops.Properties) error
	SetProperties(props *videoprops.Properties)
	GetProperties(props *videoprops.Properties)
	Dialog() error
}

// Factory constructs a fresh backend instance.
type Factory func() (Backend, error)

const (
	UNAVAILABLE = xerror.Kind("unavailable")
	REJECTED    = xerror.Kind("rejected")
	IO          = xerror.Kind("io")
	USAGE       = xerror.Kind("usage")
	UNSUPPORTED = xerror.Kind("unsupported")
)

var (
	ErrUnavailable  = xerror.NewWithKind(UNAVAILABLE, "backend unavailable")
	ErrDuplicate    = xerror.NewWithKind(USAGE, "backend already registered")
	ErrUnknownCodec = xerror.NewWithKind(UNAVAILABLE, "unknown codec")
	ErrRejected     = xerror.NewWithKind(REJECTED, "rejected by backend")
	ErrWriteFailed  = xerror.NewWithKind(IO, "write failed")
	ErrUnsupported  = xerror.NewWithKind(UNSUPPORTED, "operation unsupported")
	ErrUsage        = xerror.NewWithKind(USAGE, "invalid in current state")
	ErrNotStarted   = xerror.NewWithKind(USAGE, "backend not started")
)

// Unsupported is embeddable by backends which have no
// property introspection and no native dialog.
type Unsupported struct{}

func (Unsupported) EnumProperties(*videoprops.Properties) error {
	return xerror.Errorf("%w: property enumeration", ErrUnsupported)
}

func (Unsupported) SetProperties(*videoprops.Properties) {}

func (Unsupported) GetProperties(props *videoprops.Properties) {
	for _, k := range props.Keys() {
		props.Set(k, videoprops.Unset())
	}
}

func (Unsupported) Dialog() error {
	return xerror.Errorf("%w: settings dialog", ErrUnsupported)
}

// ContainsString reports whether s is one of strs.
func ContainsString(s string, strs []string) bool {
	for _, v := range strs {
		if s == v {
			return true
		}
	}
	return false
}
