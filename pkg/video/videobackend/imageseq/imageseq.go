// Package imageseq records takes as numbered still images, one file per
// frame, and reads such sequences back for playback.
package imageseq

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const ID = "images"

var codecs = []string{"png", "jpeg", "bmp", "tiff"}

var descriptions = map[string]string{
	"png":  "PNG image sequence",
	"jpeg": "JPEG image sequence",
	"bmp":  "BMP image sequence",
	"tiff": "TIFF image sequence",
}

var extensions = map[string]string{
	"png": ".png", "jpeg": ".jpg", "bmp": ".bmp", "tiff": ".tif",
}

var extensionAliases = map[string][]string{
	"png":  {".png"},
	"jpeg": {".jpg", ".jpeg"},
	"bmp":  {".bmp"},
	"tiff": {".tif", ".tiff"},
}

const (
	defaultQuality = 90
	defaultDigits  = 5
)

var pngCompression = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

var fs = afero.NewOsFs()

func New() (videobackend.Backend, error) {
	return NewWithFs(fs), nil
}

func NewWithFs(fsys afero.Fs) videobackend.Backend {
	return &backend{
		fs: fsys, codec: codecs[0],
		quality: defaultQuality, digits: defaultDigits, compression: "default",
	}
}

func Factory() videobackend.Factory { return New }

type backend struct {
	mu          sync.Mutex
	fs          afero.Fs
	codec       string
	quality     int
	digits      int
	compression string
	pattern     string
	started     bool
	index       int
}

func (b *backend) Codecs() []string { return append([]string{}, codecs...) }

func (b *backend) CodecDescription(codec string) string { return descriptions[codec] }

func (b *backend) SetCodec(codec string) error {
	if !videobackend.ContainsString(codec, codecs) {
		return xerror.Errorf("%w: images backend does not provide codec %s", videobackend.ErrRejected, codec)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codec = codec
	return nil
}

// Pattern turns a take filename into the printf pattern of its frame
// files. A name which already carries a frame verb is used as it is. An
// extension not belonging to codec is replaced with the codec's own.
func Pattern(filename, codec string, digits int) string {
	dir, name := filepath.Split(filename)
	dir = strings.ReplaceAll(dir, "%", "%%")

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if want, ok := extensions[codec]; ok && !matchesCodec(ext, codec) {
		ext = want
	}
	if frameVerb.MatchString(base) {
		return dir + base + ext
	}
	base = strings.ReplaceAll(base, "%", "%%")
	return fmt.Sprintf("%s%s_%%0%dd%s", dir, base, digits, ext)
}

var frameVerb = regexp.MustCompile(`%0?[0-9]*d`)

func matchesCodec(ext, codec string) bool {
	ext = strings.ToLower(ext)
	for _, alias := range extensionAliases[codec] {
		if ext == alias {
			return true
		}
	}
	return false
}

func (b *backend) Start(filename string, props *videoprops.Properties) error {
	if len(filename) == 0 {
		return xerror.Errorf("%w: no filename", videobackend.ErrRejected)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.setProperties(props)

	dir := filepath.Dir(filename)
	if err := b.fs.MkdirAll(dir, os.ModePerm|os.ModeDir); err != nil && !os.IsExist(err) {
		return xerror.Errorf("%w: unable to create %s: %v", videobackend.ErrRejected, dir, err)
	}

	b.pattern = Pattern(filename, b.codec, b.digits)
	b.index = 0
	b.started = true
	log.Debug("recording image sequence to %s", b.pattern)
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

	path := fmt.Sprintf(b.pattern, b.index)
	f, err := b.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return xerror.Errorf("%w: unable to create %s: %v", videobackend.ErrWriteFailed, path, err)
	}
	defer f.Close()

	if err := b.encode(f, frame.Image()); err != nil {
		return xerror.Errorf("%w: unable to encode %s: %v", videobackend.ErrWriteFailed, path, err)
	}
	b.index++
	return nil
}

func (b *backend) encode(w io.Writer, img image.Image) error {
	switch b.codec {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: b.quality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	enc := png.Encoder{CompressionLevel: pngCompression[b.compression]}
	return enc.Encode(w, img)
}

func (b *backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		log.Debug("wrote %d images to %s", b.index, b.pattern)
	}
	b.started = false
	return nil
}

func (b *backend) EnumProperties(props *videoprops.Properties) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	props.Clear()
	props.Set("digits", videoprops.Number(float64(b.digits)))
	switch b.codec {
	case "jpeg":
		props.Set("quality", videoprops.Number(float64(b.quality)))
	case "png":
		props.Set("compression", videoprops.Text(b.compression))
	}
	return nil
}

func (b *backend) SetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setProperties(props)
}

func (b *backend) setProperties(props *videoprops.Properties) {
	if q, ok := props.Number("quality"); ok && q >= 1 && q <= 100 {
		b.quality = int(q)
	}
	if d, ok := props.Number("digits"); ok && d >= 1 && d <= 12 {
		b.digits = int(d)
	}
	if c, ok := props.Text("compression"); ok {
		if _, known := pngCompression[c]; known {
			b.compression = c
		}
	}
}

func (b *backend) GetProperties(props *videoprops.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range props.Keys() {
		switch k {
		case "quality":
			props.Set(k, videoprops.Number(float64(b.quality)))
		case "digits":
			props.Set(k, videoprops.Number(float64(b.digits)))
		case "compression":
			props.Set(k, videoprops.Text(b.compression))
		default:
			props.Set(k, videoprops.Unset())
		}
	}
}

func (b *backend) Dialog() error {
	return xerror.Errorf("%w: images backend has no settings dialog", videobackend.ErrUnsupported)
}
