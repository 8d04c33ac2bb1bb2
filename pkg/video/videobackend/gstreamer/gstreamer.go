package gstreamer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

const ID = "gstreamer"

type encoding struct {
	codec       string
	description string
	encoder     string
	muxer       string
	// bitrate property of the encoder and the multiplier from kbit/s
	bitrateProp  string
	bitrateScale int
}

var encodings = []encoding{
	{"h264", "H.264 in MP4 (x264)", "x264enc", "mp4mux", "bitrate", 1},
	{"vp8", "VP8 in WebM", "vp8enc", "webmmux", "target-bitrate", 1000},
	{"theora", "Theora in Ogg", "theoraenc", "oggmux", "bitrate", 1},
	{"mjpeg", "Motion JPEG in AVI", "jpegenc", "avimux", "", 0},
}

const (
	defaultFPS     = 25
	defaultBitrate = 2048
	drainTimeout   = 5 * time.Second
)

var fs = afero.NewOsFs()

var initOnce sync.Once

// elementAvailable looks up the factory of a plugin element in the
// GStreamer registry without instantiating the element.
var elementAvailable = func(name string) bool {
	factory := gst.Find(name)
	if factory == nil {
		return false
	}
	factory.Unref()
	return true
}

func New() (videobackend.Backend, error) {
	initOnce.Do(func() { gst.Init(nil) })

	var available []encoding
	for _, enc := range encodings {
		if elementAvailable(enc.encoder) && elementAvailable(enc.muxer) {
			available = append(available, enc)
		}
	}
	if len(available) == 0 {
		return nil, xerror.New("no usable GStreamer encoders found")
	}
	return &backend{
		encodings: available, current: available[0],
		fps: defaultFPS, bitrate: defaultBitrate,
	}, nil
}

func Factory() videobackend.Factory { return New }

type backend struct {
	mu         sync.Mutex
	encodings  []encoding
	current    encoding
	fps        int
	bitrate    int
	filename   string
	started    bool
	pipeline   *gst.Pipeline
	src        *app.Source
	dimensions videoframe.Dimensions
}

func (b *backend) Codecs() []string {
	codecs := make([]string, 0, len(b.encodings))
	for _, enc := range b.encodings {
		codecs = append(codecs, enc.codec)
	}
	return codecs
}

func (b *backend) CodecDescription(codec string) string {
	for _, enc := range b.encodings {
		if enc.codec == codec {
			return enc.description
		}
	}
	return ""
}

func (b *backend) SetCodec(codec string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, enc := range b.encodings {
		if enc.codec == codec {
			b.current = enc
			return nil
		}
	}
	return xerror.Errorf("%w: gstreamer has no encoder for %s", videobackend.ErrRejected, codec)
}

// describePipeline builds the gst-launch description of the encoding pipeline.
func describePipeline(enc encoding, dim videoframe.Dimensions, fps, bitrate int, filename string) string {
	encoder := enc.encoder
	if len(enc.bitrateProp) > 0 {
		encoder = fmt.Sprintf("%s %s=%d", enc.encoder, enc.bitrateProp, bitrate*enc.bitrateScale)
	}
	return fmt.Sprintf(
		"appsrc name=src format=time is-live=true do-timestamp=true "+
			"caps=\"video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/1\" ! "+
			"videoconvert ! %s ! %s ! filesink location=%q",
		dim.W, dim.H, fps, encoder, enc.muxer, filename,
	)
}

func (b *backend) Start(filename string, props *videoprops.Properties) error {
	if len(filename) == 0 {
		return xerror.Errorf("%w: no filename", videobackend.ErrRejected)
	}
	dir := filepath.Dir(filename)
	if err := fs.MkdirAll(dir, os.ModePerm|os.ModeDir); err != nil && !os.IsExist(err) {
		return xerror.Errorf("%w: unable to create %s: %v", videobackend.ErrRejected, dir, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.teardown()
	b.setProperties(props)
	b.filename = filename
	b.started = true
	return nil
}

func (b *backend) open(dim videoframe.Dimensions) error {
	desc := describePipeline(b.current, dim, b.fps, b.bitrate, b.filename)
	log.Debug("gstreamer pipeline: %s", desc)

	pipeline, err := gst.NewPipelineFromString(desc)
	if err != nil {
		return err
	}
	elem, err := pipeline.GetElementByName("src")
	if err != nil {
		pipeline.SetState(gst.StateNull) //nolint
		return err
	}
	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		pipeline.SetState(gst.StateNull) //nolint
		return err
	}
	b.pipeline = pipeline
	b.src = app.SrcFromElement(elem)
	b.dimensions = dim
	return nil
}

func (b *backend) Write(frame *videoframe.Frame) error {
	if frame.Empty() {
		return xerror.Errorf("%w: empty frame", videobackend.ErrWriteFailed)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return videobackend.ErrNotStarted
	}
	if b.pipeline == nil {
		if err := b.open(frame.Dimensions()); err != nil {
			return xerror.Errorf("%w: unable to build pipeline for %s: %v", videobackend.ErrWriteFailed, b.filename, err)
		}
	}
	if frame.Dimensions() != b.dimensions {
		return xerror.Errorf("%w: frame size changed mid take", videobackend.ErrWriteFailed)
	}

	pix := packed(frame)
	if ret := b.src.PushBuffer(gst.NewBufferFromBytes(pix)); ret != gst.FlowOK {
		return xerror.Errorf("%w: appsrc refused buffer: %v", videobackend.ErrWriteFailed, ret)
	}
	return nil
}

// packed drops any row padding, appsrc expects tightly packed RGBA.
func packed(frame *videoframe.Frame) []byte {
	row := frame.Width * 4
	if frame.Stride == row {
		return frame.Pix[:row*frame.Height]
	}
	out := make([]byte, 0, row*frame.Height)
	for y := 0; y < frame.Height; y++ {
		out = append(out, frame.Pix[y*frame.Stride:y*frame.Stride+row]...)
	}
	return out
}

func (b *backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started = false
	return b.teardown()
}

// teardown sends EOS and waits for the muxer to finalise the file.
func (b *backend) teardown() error {
	if b.pipeline == nil {
		return nil
	}
	defer func() {
		b.pipeline.SetState(gst.StateNull) //nolint
		b.pipeline, b.src = nil, nil
	}()

	b.src.EndStream()
	bus := b.pipeline.GetPipelineBus()
	deadline := time.Now().Add(drainTimeout)
	for time.Now().Before(deadline) {
		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			log.Debug("gstreamer finalised %s", b.filename)
			return nil
		case gst.MessageError:
			gerr := msg.ParseError()
			log.Error("gstreamer pipeline error while finalising %s: %s", b.filename, gerr.Error())
			return xerror.Errorf("%w: %s", videobackend.ErrWriteFailed, gerr.Error())
		}
	}
	log.Warn("gstreamer did not drain %s within %s", b.filename, drainTimeout)
	return xerror.Errorf("%w: drain timeout", videobackend.ErrWriteFailed)
}

func (b *backend) EnumProperties(props *videoprops.Properties) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	props.Clear()
	props.Set("fps", videoprops.Number(float64(b.fps)))
	if len(b.current.bitrateProp) > 0 {
		props.Set("bitrate", videoprops.Number(float64(b.bitrate)))
	}
	return nil
}

func (b *backend) SetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setProperties(props)
}

func (b *backend) setProperties(props *videoprops.Properties) {
	if fps, ok := props.Number("fps"); ok && fps >= 1 {
		b.fps = int(fps)
	}
	if br, ok := props.Number("bitrate"); ok && br >= 1 {
		b.bitrate = int(br)
	}
}

func (b *backend) GetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range props.Keys() {
		switch k {
		case "fps":
			props.Set(k, videoprops.Number(float64(b.fps)))
		case "bitrate":
			props.Set(k, videoprops.Number(float64(b.bitrate)))
		default:
			props.Set(k, videoprops.Unset())
		}
	}
}

func (b *backend) Dialog() error {
	return xerror.Errorf("%w: gstreamer has no settings dialog", videobackend.ErrUnsupported)
}

func (b *backend) Close() error {
	return b.Stop()
}
