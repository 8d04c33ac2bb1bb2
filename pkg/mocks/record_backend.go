package mocks

import (
	"sort"
	"sync"

	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
)

type Options struct {
	Codecs       []string
	Descriptions map[string]string
	// RejectCodecs are advertised but refused by SetCodec.
	RejectCodecs []string
	FailStart    bool
	// FailWriteOn makes the nth Write call (1 based) fail, 0 never fails.
	FailWriteOn int
	Properties  map[string]videoprops.Value
	DialogErr   error
}

// NewRecordBackend gives a scriptable backend which counts calls.
func NewRecordBackend(opts Options) *RecordBackend {
	return &RecordBackend{opts: opts}
}

func Factory(b *RecordBackend) videobackend.Factory {
	return func() (videobackend.Backend, error) { return b, nil }
}

type RecordBackend struct {
	mu          sync.Mutex
	opts        Options
	codec       string
	filename    string
	started     bool
	closed      bool
	StartCalls  int
	StopCalls   int
	WriteCalls  int
	CodecCalls  []string
	Written     []*videoframe.Frame
	StartProps  *videoprops.Properties
	DialogCalls int
}

func (m *RecordBackend) Codecs() []string {
	return append([]string{}, m.opts.Codecs...)
}

func (m *RecordBackend) CodecDescription(codec string) string {
	return m.opts.Descriptions[codec]
}

func (m *RecordBackend) SetCodec(codec string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CodecCalls = append(m.CodecCalls, codec)
	if !videobackend.ContainsString(codec, m.opts.Codecs) || videobackend.ContainsString(codec, m.opts.RejectCodecs) {
		return xerror.Errorf("%w: codec %s", videobackend.ErrRejected, codec)
	}
	m.codec = codec
	return nil
}

func (m *RecordBackend) Codec() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codec
}

func (m *RecordBackend) Start(filename string, props *videoprops.Properties) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
	if m.opts.FailStart {
		return xerror.Errorf("%w: unable to open %s", videobackend.ErrRejected, filename)
	}
	m.filename = filename
	m.started = true
	m.StartProps = props.Clone()
	return nil
}

func (m *RecordBackend) Filename() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filename
}

func (m *RecordBackend) Write(frame *videoframe.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.opts.FailWriteOn > 0 && m.WriteCalls == m.opts.FailWriteOn {
		return xerror.Errorf("%w: disk full", videobackend.ErrWriteFailed)
	}
	if !m.started {
		return videobackend.ErrNotStarted
	}
	m.Written = append(m.Written, frame)
	return nil
}

func (m *RecordBackend) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
	m.started = false
	return nil
}

func (m *RecordBackend) EnumProperties(props *videoprops.Properties) error {
	if m.opts.Properties == nil {
		return videobackend.ErrUnsupported
	}
	props.Clear()
	for _, k := range sortedKeys(m.opts.Properties) {
		props.Set(k, m.opts.Properties[k])
	}
	return nil
}

func (m *RecordBackend) SetProperties(props *videoprops.Properties) {
	for _, k := range props.Keys() {
		if _, ok := m.opts.Properties[k]; ok {
			v, _ := props.Get(k)
			m.opts.Properties[k] = v
		}
	}
}

func (m *RecordBackend) GetProperties(props *videoprops.Properties) {
	for _, k := range props.Keys() {
		v, ok := m.opts.Properties[k]
		if !ok {
			v = videoprops.Unset()
		}
		props.Set(k, v)
	}
}

func (m *RecordBackend) Dialog() error {
	m.DialogCalls++
	return m.opts.DialogErr
}

func (m *RecordBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *RecordBackend) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func sortedKeys(m map[string]videoprops.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
