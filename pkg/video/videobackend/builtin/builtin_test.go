package builtin_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/builtin"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/discard"
)

func TestRegistryFollowsPreferenceOrder(t *testing.T) {
	is := is.New(t)
	r := builtin.Registry()
	is.Equal(r.IDs(), []string{"gstreamer", "opencv", "images", "sqlite", "discard"})
}

func TestRegistryInstantiatesPureBackends(t *testing.T) {
	is := is.New(t)
	r := builtin.Registry(builtin.WithDatabase("unused.db"))

	b, err := r.Instantiate("discard")
	is.NoErr(err)
	_, ok := b.(*discard.Backend)
	is.True(ok)

	b, err = r.Instantiate("images")
	is.NoErr(err)
	is.Equal(b.Codecs(), []string{"png", "jpeg", "bmp", "tiff"})
}
