package recorder

import (
	"strconv"
	"strings"

	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
)

// Dispatch runs one line of the text control surface, for example
// "file take.mp4", "codec 2" or "set quality 80".
func (r *Recorder) Dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "file":
		if len(args) == 0 {
			return xerror.Errorf("%w: file needs a name", videobackend.ErrUsage)
		}
		return r.File(strings.Join(args, " "))
	case "auto":
		on, err := flag(cmd, args)
		if err != nil {
			return err
		}
		r.Auto(on)
	case "bang":
		r.Bang()
	case "record":
		on, err := wholeFlag(cmd, args)
		if err != nil {
			return err
		}
		if on {
			return r.Start()
		}
		r.Stop()
	case "dialog":
		return r.Dialog()
	case "codeclist":
		r.CodecList()
	case "codec":
		if len(args) == 0 {
			return xerror.Errorf("%w: codec needs a name or index", videobackend.ErrUsage)
		}
		return r.Codec(args[0])
	case "proplist":
		return r.PropList()
	case "set":
		if len(args) == 0 {
			return xerror.Errorf("%w: no key given", videobackend.ErrUsage)
		}
		return r.SetProperty(args[0], args[1:]...)
	case "clearprops":
		r.ClearProps()
	case "seek", "play":
		return r.playbackCommand(cmd, args)
	default:
		return xerror.Errorf("%w: unknown command '%s'", videobackend.ErrUsage, cmd)
	}
	return nil
}

func (r *Recorder) playbackCommand(cmd string, args []string) error {
	r.mu.Lock()
	p := r.playback
	r.mu.Unlock()
	if p == nil {
		return xerror.Errorf("%w: no playback source", videobackend.ErrUsage)
	}
	if len(args) == 0 {
		return xerror.Errorf("%w: %s needs a number", videobackend.ErrUsage, cmd)
	}
	n, ok := index(args[0])
	if !ok {
		return xerror.Errorf("%w: %s needs a number, got '%s'", videobackend.ErrUsage, cmd, args[0])
	}
	if cmd == "seek" {
		p.Seek(n)
	} else {
		p.Auto(n)
	}
	return nil
}

func flag(cmd string, args []string) (bool, error) {
	if len(args) == 0 {
		return false, xerror.Errorf("%w: %s needs 0 or 1", videobackend.ErrUsage, cmd)
	}
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return false, xerror.Errorf("%w: %s needs 0 or 1, got '%s'", videobackend.ErrUsage, cmd, args[0])
	}
	return f != 0, nil
}

// wholeFlag is flag with the value truncated first, so "record 0.5" stops.
func wholeFlag(cmd string, args []string) (bool, error) {
	if len(args) == 0 {
		return flag(cmd, args)
	}
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return flag(cmd, args)
	}
	return int(f) != 0, nil
}

// index accepts whole numbers, including float spellings such as "2.0".
func index(s string) (int, bool) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
