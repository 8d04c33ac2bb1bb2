package imageseq

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Reader plays back an image sequence written by the images backend.
// It holds no per read state, so it is safe for concurrent Frame calls.
type Reader struct {
	fs      afero.Fs
	pattern string
	count   int
}

// Open counts the consecutive frame files matching the pattern of
// filename, starting from index 0.
func Open(fsys afero.Fs, filename, codec string) (*Reader, error) {
	if fsys == nil {
		fsys = fs
	}
	r := &Reader{fs: fsys, pattern: Pattern(filename, codec, defaultDigits)}
	for {
		if _, err := fsys.Stat(fmt.Sprintf(r.pattern, r.count)); err != nil {
			break
		}
		r.count++
	}
	if r.count == 0 {
		return nil, xerror.Errorf("no images found for %s", r.pattern)
	}
	return r, nil
}

func (r *Reader) NumFrames() int { return r.count }

// Frame returns nil without error for indices outside the sequence.
func (r *Reader) Frame(index int) (*videoframe.Frame, error) {
	if index < 0 || index >= r.count {
		return nil, nil
	}
	path := fmt.Sprintf(r.pattern, index)
	f, err := r.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerror.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, xerror.Errorf("unable to decode %s: %w", path, err)
	}
	frame := videoframe.FromImage(img)
	frame.Index = index
	return frame, nil
}
