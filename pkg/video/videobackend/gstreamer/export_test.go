package gstreamer

import "github.com/tauraamui/pixrecord/pkg/video/videoframe"

func DescribePipeline(codec string, dim videoframe.Dimensions, fps, bitrate int, filename string) string {
	for _, enc := range encodings {
		if enc.codec == codec {
			return describePipeline(enc, dim, fps, bitrate, filename)
		}
	}
	return ""
}

func Packed(f *videoframe.Frame) []byte { return packed(f) }

func OverloadElementAvailable(f func(string) bool) func() {
	ref := elementAvailable
	elementAvailable = f
	return func() { elementAvailable = ref }
}
