package gstreamer_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/gstreamer"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
)

func TestDescribePipelineScalesBitratePerEncoder(t *testing.T) {
	is := is.New(t)
	dim := videoframe.Dimensions{W: 320, H: 240}

	is.Equal(
		gstreamer.DescribePipeline("h264", dim, 30, 1500, "/takes/a.mp4"),
		`appsrc name=src format=time is-live=true do-timestamp=true caps="video/x-raw,format=RGBA,width=320,height=240,framerate=30/1" ! videoconvert ! x264enc bitrate=1500 ! mp4mux ! filesink location="/takes/a.mp4"`,
	)
	is.Equal(
		gstreamer.DescribePipeline("vp8", dim, 25, 1500, "/takes/a.webm"),
		`appsrc name=src format=time is-live=true do-timestamp=true caps="video/x-raw,format=RGBA,width=320,height=240,framerate=25/1" ! videoconvert ! vp8enc target-bitrate=1500000 ! webmmux ! filesink location="/takes/a.webm"`,
	)
	is.Equal(
		gstreamer.DescribePipeline("mjpeg", dim, 25, 1500, "/takes/a.avi"),
		`appsrc name=src format=time is-live=true do-timestamp=true caps="video/x-raw,format=RGBA,width=320,height=240,framerate=25/1" ! videoconvert ! jpegenc ! avimux ! filesink location="/takes/a.avi"`,
	)
}

func TestPackedStripsRowPadding(t *testing.T) {
	is := is.New(t)
	f := &videoframe.Frame{Width: 1, Height: 2, Stride: 8, Pix: []byte{1, 2, 3, 4, 0, 0, 0, 0, 5, 6, 7, 8, 0, 0, 0, 0}}
	is.Equal(gstreamer.Packed(f), []byte{1, 2, 3, 4, 5, 6, 7, 8})
}

func TestBackendOnlyAdvertisesProbedEncoders(t *testing.T) {
	is := is.New(t)
	reset := gstreamer.OverloadElementAvailable(func(name string) bool {
		return name == "jpegenc" || name == "avimux"
	})
	defer reset()

	b, err := gstreamer.New()
	is.NoErr(err)
	is.Equal(b.Codecs(), []string{"mjpeg"})
	is.True(errors.Is(b.SetCodec("h264"), videobackend.ErrRejected))

	props := videoprops.New()
	is.NoErr(b.EnumProperties(props))
	is.Equal(props.Keys(), []string{"fps"})
}

func TestBackendUnavailableWithoutEncoders(t *testing.T) {
	is := is.New(t)
	reset := gstreamer.OverloadElementAvailable(func(string) bool { return false })
	defer reset()

	b, err := gstreamer.New()
	is.True(err != nil)
	is.True(b == nil)
}

func TestBackendLooksUpEncoderAndMuxerFactories(t *testing.T) {
	is := is.New(t)
	var looked []string
	reset := gstreamer.OverloadElementAvailable(func(name string) bool {
		looked = append(looked, name)
		return true
	})
	defer reset()

	b, err := gstreamer.New()
	is.NoErr(err)
	is.Equal(b.Codecs(), []string{"h264", "vp8", "theora", "mjpeg"})
	is.Equal(looked, []string{"x264enc", "mp4mux", "vp8enc", "webmmux", "theoraenc", "oggmux", "jpegenc", "avimux"})
}
