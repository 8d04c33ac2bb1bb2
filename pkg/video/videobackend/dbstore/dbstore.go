package dbstore

import (
	"bytes"
	"image/png"
	"sync"

	data "github.com/tauraamui/pixrecord/pkg/database"
	"github.com/tauraamui/pixrecord/pkg/database/dbconn"
	"github.com/tauraamui/pixrecord/pkg/database/models"
	"github.com/tauraamui/pixrecord/pkg/database/repos"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"github.com/tauraamui/xerror"
)

const ID = "sqlite"

var descriptions = map[string]string{
	"raw": "uncompressed RGBA rows",
	"png": "PNG compressed rows",
}

var codecs = []string{"raw", "png"}

var connect = func(path string) (dbconn.GormWrapper, error) {
	if len(path) == 0 {
		return data.Connect()
	}
	return data.ConnectPath(path)
}

// Factory builds sqlite backends storing takes in the database at path,
// or the default take database when path is empty.
func Factory(path string) videobackend.Factory {
	return func() (videobackend.Backend, error) {
		return New(path), nil
	}
}

func New(path string) videobackend.Backend {
	return &backend{path: path, codec: codecs[0]}
}

type backend struct {
	videobackend.Unsupported
	mu       sync.Mutex
	path     string
	codec    string
	db       dbconn.GormWrapper
	repo     repos.TakeRepository
	take     *models.Take
	position int
}

func (b *backend) Codecs() []string {
	return append([]string{}, codecs...)
}

func (b *backend) CodecDescription(codec string) string {
	return descriptions[codec]
}

func (b *backend) SetCodec(codec string) error {
	if !videobackend.ContainsString(codec, codecs) {
		return xerror.Errorf("%w: sqlite stores raw or png, not %s", videobackend.ErrRejected, codec)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codec = codec
	return nil
}

// Start opens a new take named after filename.
func (b *backend) Start(filename string, _ *videoprops.Properties) error {
	if len(filename) == 0 {
		return xerror.Errorf("%w: no take name", videobackend.ErrRejected)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.finishLocked()

	if b.db == nil {
		db, err := connect(b.path)
		if err != nil {
			return xerror.Errorf("%w: %v", videobackend.ErrRejected, err)
		}
		b.db = db
		b.repo = repos.TakeRepository{DB: db}
	}

	take := models.Take{Name: filename, Codec: b.codec}
	if err := b.repo.Create(&take); err != nil {
		return xerror.Errorf("%w: unable to create take %s: %v", videobackend.ErrRejected, filename, err)
	}
	log.Debug("sqlite take %s (%s) opened", take.Name, take.UUID)
	b.take = &take
	b.position = 0
	return nil
}

func (b *backend) Write(frame *videoframe.Frame) error {
	if frame.Empty() {
		return xerror.Errorf("%w: empty frame", videobackend.ErrWriteFailed)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.take == nil {
		return videobackend.ErrNotStarted
	}

	payload, err := encode(b.codec, frame)
	if err != nil {
		return xerror.Errorf("%w: %v", videobackend.ErrWriteFailed, err)
	}
	row := models.Frame{
		TakeUUID: b.take.UUID,
		Position: b.position,
		Width:    frame.Width,
		Height:   frame.Height,
		Encoding: b.codec,
		Data:     payload,
	}
	if err := b.repo.AddFrame(&row); err != nil {
		return xerror.Errorf("%w: %v", videobackend.ErrWriteFailed, err)
	}
	b.position++
	return nil
}

func encode(codec string, frame *videoframe.Frame) ([]byte, error) {
	if codec == "png" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, frame.Image()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	row := frame.Width * 4
	out := make([]byte, 0, row*frame.Height)
	for y := 0; y < frame.Height; y++ {
		out = append(out, frame.Pix[y*frame.Stride:y*frame.Stride+row]...)
	}
	return out, nil
}

func (b *backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finishLocked()
}

func (b *backend) finishLocked() error {
	if b.take == nil {
		return nil
	}
	take := b.take
	b.take = nil
	if err := b.repo.Finish(take, b.position); err != nil {
		log.Error("sqlite take %s: %v", take.UUID, err)
		return xerror.Errorf("%w: %v", videobackend.ErrWriteFailed, err)
	}
	log.Debug("sqlite take %s closed with %d frames", take.UUID, b.position)
	return nil
}

func (b *backend) Close() error {
	err := b.Stop()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		if cerr := b.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
		b.db = nil
	}
	return err
}
