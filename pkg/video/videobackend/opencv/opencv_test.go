package opencv_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/opencv"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"gocv.io/x/gocv"
)

type testWriter struct {
	writes int
	closed bool
}

func (w *testWriter) Write(gocv.Mat) error { w.writes++; return nil }
func (w *testWriter) Close() error         { w.closed = true; return nil }

type openCall struct {
	filename, codec string
	fps             float64
	w, h            int
}

func setup(t *testing.T) (*testWriter, *[]openCall) {
	writer := &testWriter{}
	calls := &[]openCall{}
	resetWriter := opencv.OverloadOpenVideoWriter(func(filename, codec string, fps float64, w, h int, isColor bool) (opencv.VideoWriter, error) {
		*calls = append(*calls, openCall{filename, codec, fps, w, h})
		return writer, nil
	})
	resetMat := opencv.OverloadImageToMat(func(*videoframe.Frame) (gocv.Mat, error) {
		return gocv.NewMat(), nil
	})
	resetFS := opencv.OverloadFS(afero.NewMemMapFs())
	t.Cleanup(func() { resetWriter(); resetMat(); resetFS() })
	return writer, calls
}

func TestOpenCVAdvertisesFourCCCodecs(t *testing.T) {
	is := is.New(t)
	b, err := opencv.New()
	is.NoErr(err)
	is.Equal(b.Codecs(), []string{"avc1", "mp4v", "MJPG", "XVID"})
	is.Equal(b.CodecDescription("MJPG"), "Motion JPEG")
	is.NoErr(b.SetCodec("MJPG"))
	is.True(errors.Is(b.SetCodec("h265"), videobackend.ErrRejected))
}

func TestOpenCVOpensWriterLazilyWithFrameDimensions(t *testing.T) {
	is := is.New(t)
	writer, calls := setup(t)

	b, _ := opencv.New()
	is.NoErr(b.SetCodec("mp4v"))
	props := videoprops.New()
	props.Set("fps", videoprops.Number(12))
	is.NoErr(b.Start("/takes/one.mp4", props))
	is.Equal(len(*calls), 0)

	is.NoErr(b.Write(videoframe.New(64, 48)))
	is.NoErr(b.Write(videoframe.New(64, 48)))
	is.Equal(*calls, []openCall{{"/takes/one.mp4", "mp4v", 12, 64, 48}})
	is.Equal(writer.writes, 2)

	is.True(errors.Is(b.Write(videoframe.New(32, 32)), videobackend.ErrWriteFailed))

	is.NoErr(b.Stop())
	is.True(writer.closed)
	is.True(errors.Is(b.Write(videoframe.New(64, 48)), videobackend.ErrNotStarted))
}

func TestOpenCVRejectsEmptyFilename(t *testing.T) {
	is := is.New(t)
	setup(t)
	b, _ := opencv.New()
	is.True(errors.Is(b.Start("", videoprops.New()), videobackend.ErrRejected))
}

func TestOpenCVHasNoDialog(t *testing.T) {
	is := is.New(t)
	b, _ := opencv.New()
	is.True(errors.Is(b.Dialog(), videobackend.ErrUnsupported))

	props := videoprops.New()
	is.NoErr(b.EnumProperties(props))
	is.Equal(props.Keys(), []string{"fps"})
}
