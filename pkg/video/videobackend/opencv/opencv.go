package opencv

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const ID = "opencv"

var fs = afero.NewOsFs()

var codecs = []string{"avc1", "mp4v", "MJPG", "XVID"}

var descriptions = map[string]string{
	"avc1": "H.264/AVC",
	"mp4v": "MPEG-4 part 2",
	"MJPG": "Motion JPEG",
	"XVID": "Xvid MPEG-4",
}

const defaultFPS = 25.0

type videoWriter interface {
	Write(gocv.Mat) error
	Close() error
}

var openVideoWriter = func(filename, codec string, fps float64, width, height int, isColor bool) (videoWriter, error) {
	return gocv.VideoWriterFile(filename, codec, fps, width, height, isColor)
}

var imageToMat = func(frame *videoframe.Frame) (gocv.Mat, error) {
	return gocv.ImageToMatRGB(frame.Image())
}

func New() (videobackend.Backend, error) {
	return &backend{codec: codecs[0], fps: defaultFPS}, nil
}

func Factory() videobackend.Factory { return New }

// backend writes movie files through OpenCV's VideoWriter. The
// writer is opened lazily on the first frame since it needs the
// frame dimensions.
type backend struct {
	mu         sync.Mutex
	codec      string
	fps        float64
	filename   string
	started    bool
	vw         videoWriter
	dimensions videoframe.Dimensions
}

func (b *backend) Codecs() []string { return append([]string{}, codecs...) }

func (b *backend) CodecDescription(codec string) string { return descriptions[codec] }

func (b *backend) SetCodec(codec string) error {
	if !videobackend.ContainsString(codec, codecs) {
		return xerror.Errorf("%w: opencv does not provide codec %s", videobackend.ErrRejected, codec)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codec = codec
	return nil
}

func (b *backend) Start(filename string, props *videoprops.Properties) error {
	if len(filename) == 0 {
		return xerror.Errorf("%w: no filename", videobackend.ErrRejected)
	}
	if err := ensureDirectoryPathExists(filepath.Dir(filename)); err != nil {
		return xerror.Errorf("%w: %v", videobackend.ErrRejected, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeWriter()
	b.setPropertiesLocked(props)
	b.filename = filename
	b.started = true
	return nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
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

	if b.vw == nil {
		vw, err := openVideoWriter(b.filename, b.codec, b.fps, frame.Width, frame.Height, true)
		if err != nil {
			return xerror.Errorf("%w: unable to open %s: %v", videobackend.ErrWriteFailed, b.filename, err)
		}
		b.vw = vw
		b.dimensions = frame.Dimensions()
	}
	if frame.Dimensions() != b.dimensions {
		return xerror.Errorf("%w: frame size changed mid take", videobackend.ErrWriteFailed)
	}

	mat, err := imageToMat(frame)
	if err != nil {
		return xerror.Errorf("%w: unable to convert frame into OpenCV mat: %v", videobackend.ErrWriteFailed, err)
	}
	defer mat.Close()

	if err := b.vw.Write(mat); err != nil {
		return xerror.Errorf("%w: %v", videobackend.ErrWriteFailed, err)
	}
	return nil
}

func (b *backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started = false
	return b.closeWriter()
}

func (b *backend) closeWriter() error {
	if b.vw == nil {
		return nil
	}
	err := b.vw.Close()
	b.vw = nil
	if err != nil {
		log.Warn("unable to close OpenCV writer for %s: %v", b.filename, err)
	}
	return err
}

func (b *backend) EnumProperties(props *videoprops.Properties) error {
	props.Clear()
	props.Set("fps", videoprops.Number(b.fps))
	return nil
}

func (b *backend) SetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setPropertiesLocked(props)
}

func (b *backend) setPropertiesLocked(props *videoprops.Properties) {
	if fps, ok := props.Number("fps"); ok && fps > 0 {
		b.fps = fps
	}
}

func (b *backend) GetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range props.Keys() {
		switch k {
		case "fps":
			props.Set(k, videoprops.Number(b.fps))
		default:
			props.Set(k, videoprops.Unset())
		}
	}
}

func (b *backend) Dialog() error {
	return xerror.Errorf("%w: opencv has no settings dialog", videobackend.ErrUnsupported)
}

func (b *backend) Close() error {
	return b.Stop()
}
