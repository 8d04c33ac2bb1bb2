// Package builtin wires the compiled in record backends into a registry.
package builtin

import (
	"github.com/tauraamui/pixrecord/pkg/video/videobackend"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/dbstore"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/discard"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/gstreamer"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/imageseq"
	"github.com/tauraamui/pixrecord/pkg/video/videobackend/opencv"
)

type options struct {
	database string
}

type Option func(*options)

// WithDatabase points the sqlite backend at a specific database file.
func WithDatabase(path string) Option {
	return func(o *options) { o.database = path }
}

type entry struct {
	id      string
	factory func(options) videobackend.Factory
}

// table is in default preference order.
var table = []entry{
	{gstreamer.ID, func(options) videobackend.Factory { return gstreamer.Factory() }},
	{opencv.ID, func(options) videobackend.Factory { return opencv.Factory() }},
	{imageseq.ID, func(options) videobackend.Factory { return imageseq.Factory() }},
	{dbstore.ID, func(o options) videobackend.Factory { return dbstore.Factory(o.database) }},
	{discard.ID, func(options) videobackend.Factory { return discard.Factory() }},
}

func Registry(opts ...Option) *videobackend.Registry {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	r := videobackend.NewRegistry()
	for _, e := range table {
		r.Register(e.id, e.factory(o)) //nolint
	}
	return r
}
