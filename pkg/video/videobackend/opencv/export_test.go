package opencv

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"gocv.io/x/gocv"
)

type VideoWriter interface {
	Write(gocv.Mat) error
	Close() error
}

func OverloadOpenVideoWriter(f func(filename, codec string, fps float64, w, h int, isColor bool) (VideoWriter, error)) func() {
	ref := openVideoWriter
	openVideoWriter = func(filename, codec string, fps float64, w, h int, isColor bool) (videoWriter, error) {
		return f(filename, codec, fps, w, h, isColor)
	}
	return func() { openVideoWriter = ref }
}

func OverloadImageToMat(f func(*videoframe.Frame) (gocv.Mat, error)) func() {
	ref := imageToMat
	imageToMat = f
	return func() { imageToMat = ref }
}

func OverloadFS(o afero.Fs) func() {
	ref := fs
	fs = o
	return func() { fs = ref }
}
