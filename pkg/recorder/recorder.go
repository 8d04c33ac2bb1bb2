package recorder

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/pixrecord/pkg/video/videoset"
	"github.com/tauraamui/xerror"
)

// State is Idle until a take is open. A pending filename alone does not
// leave Idle, so a start failing on every backend is still Idle.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	default:
		return "idle"
	}
}

var ErrNoFile = xerror.NewWithKind(videobackend.USAGE, "start recording requested with no prior open")

// Outlet receives what a recorder reports: the running frame count and
// informational messages such as codec and property listings.
type Outlet interface {
	Frames(n int)
	Info(selector string, args ...interface{})
}

// Playback is the seekable companion player driven by seek and play.
type Playback interface {
	Seek(i int)
	Auto(step int)
}

type Recorder struct {
	mu        sync.Mutex
	set       *videoset.Set
	out       Outlet
	playback  Playback
	props     *videoprops.Properties
	filename  string
	open      *videoset.Entry
	frames    int
	recording bool
	auto      bool
	banged    bool
}

// New gives an idle recorder with automatic capture on, so every
// rendered frame of a take is written until Auto(false).
func New(set *videoset.Set, out Outlet) *Recorder {
	return &Recorder{set: set, out: out, props: videoprops.New(), auto: true}
}

func (r *Recorder) SetPlayback(p Playback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playback = p
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state()
}

func (r *Recorder) state() State {
	if r.recording {
		return Recording
	}
	return Idle
}

// Frames is the count of frames written to the current take.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Filename is the pending target of the next take.
func (r *Recorder) Filename() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filename
}

// Props is a copy of the properties handed to the next Start.
func (r *Recorder) Props() *videoprops.Properties {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.props.Clone()
}

func (r *Recorder) File(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return xerror.Errorf("%w: cannot change file while recording", videobackend.ErrUsage)
	}
	r.filename = name
	return nil
}

// Start opens a new take on the first active backend which accepts the
// selected codec and the pending file.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.start()
}

func (r *Recorder) start() error {
	if len(r.filename) == 0 {
		log.Error(ErrNoFile.Error())
		return ErrNoFile
	}
	if r.recording {
		r.stop()
	}

	codec := r.set.Codec()
	implicit := r.set.Implicit()
	var result *multierror.Error
	for _, e := range r.set.Active() {
		if len(codec) > 0 && !implicit {
			if err := e.Backend.SetCodec(codec); err != nil {
				result = multierror.Append(result, xerror.Errorf("%s: %w", e.ID, err))
				continue
			}
		}
		if err := e.Backend.Start(r.filename, r.props.Clone()); err != nil {
			result = multierror.Append(result, xerror.Errorf("%s: %w", e.ID, err))
			continue
		}
		entry := e
		r.open = &entry
		r.recording = true
		r.frames = 0
		log.Verbose(1, "recording '%s' with backend '%s'", r.filename, e.ID)
		r.filename = ""
		return nil
	}

	if result == nil {
		result = multierror.Append(result, xerror.New("no active record backends"))
	}
	log.Error("unable to open '%s'", r.filename)
	return xerror.Errorf("%w: unable to open '%s': %v", videobackend.ErrRejected, r.filename, result)
}

// Render writes frame to the open take when recording and either auto
// recording is on or a single frame was requested with Bang.
func (r *Recorder) Render(frame *videoframe.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || frame.Empty() {
		return nil
	}
	if !r.banged && !r.auto {
		return nil
	}

	err := r.open.Backend.Write(frame)
	r.banged = false
	if err != nil {
		log.Error("writing frame %d to '%s' failed: %v", r.frames, r.open.ID, err)
		r.stop()
		return err
	}
	r.frames++
	r.out.Frames(r.frames)
	return nil
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop()
}

func (r *Recorder) stop() {
	if r.recording {
		if err := r.open.Backend.Stop(); err != nil {
			log.Warn("record backend '%s' did not stop cleanly: %v", r.open.ID, err)
		}
		r.frames = 0
		r.out.Frames(r.frames)
		log.Verbose(1, "movie written")
	}
	r.recording = false
	r.open = nil
}

func (r *Recorder) Auto(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auto = on
}

// Bang requests that the next rendered frame be written.
func (r *Recorder) Bang() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banged = true
}

// handle is the backend being recorded with, otherwise the default
// backend of the selected codec.
func (r *Recorder) handle() *videoset.Entry {
	if r.open != nil {
		return r.open
	}
	return r.set.Handle()
}

func (r *Recorder) Dialog() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handle()
	if h == nil {
		return xerror.Errorf("%w: no codec selected", videobackend.ErrUsage)
	}
	if err := h.Backend.Dialog(); err != nil {
		log.Error("unable to open settings dialog")
		return err
	}
	return nil
}

// CodecList rebuilds the codec catalog and reports each of its rows.
func (r *Recorder) CodecList() []videoset.CodecEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.set.RebuildCatalog()
	for _, row := range rows {
		log.Verbose(2, "codec%d: '%s': %s", row.Index, row.Codec, row.Description)
		r.out.Info("codec", row.Index, row.Codec, row.Description)
	}
	return rows
}

// Codec selects a codec by catalog index or by name. A running take is
// stopped first.
func (r *Recorder) Codec(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop()

	if len(r.set.Catalog()) == 0 {
		r.set.RebuildCatalog()
	}

	var err error
	if i, ok := index(ref); ok {
		err = r.set.SelectByIndex(i)
	} else {
		err = r.set.SelectByName(ref)
	}
	if err != nil {
		return err
	}
	r.propList() //nolint
	return nil
}

func (r *Recorder) PropList() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.propList()
}

func (r *Recorder) propList() error {
	h := r.handle()
	if h == nil {
		return nil
	}
	props := videoprops.New()
	if err := h.Backend.EnumProperties(props); err != nil {
		log.Verbose(1, "record backend '%s' has no properties: %v", h.ID, err)
		return err
	}

	keys := props.Keys()
	r.out.Info("numprops", len(keys))
	for _, k := range keys {
		v, _ := props.Get(k)
		switch v.Kind {
		case videoprops.UNSET:
			r.out.Info("property", k, "Bang")
		case videoprops.NUMBER:
			r.out.Info("property", k, "Float", v.Num)
		case videoprops.TEXT:
			r.out.Info("property", k, "Symbol", v.Str)
		default:
			r.out.Info("property", k, "unknown")
		}
	}
	return nil
}

// SetProperty stores a property for the next Start. The tokens become
// an unset, scalar or list value depending on how many there are.
func (r *Recorder) SetProperty(key string, tokens ...string) error {
	if len(key) == 0 {
		return xerror.Errorf("%w: no key given", videobackend.ErrUsage)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props.Set(key, videoprops.FromTokens(tokens...))
	return nil
}

func (r *Recorder) SetProperties(props *videoprops.Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		r.props.Set(k, v)
	}
}

func (r *Recorder) ClearProps() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props.Clear()
}

// Close ends any take and tears down every backend.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop()
	return r.set.Close()
}
