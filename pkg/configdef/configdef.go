package configdef

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
	"gopkg.in/dealancer/validate.v2"
)

const (
	SourcePattern = "pattern"
	SourceImages  = "images"
)

type Playback struct {
	Source   string `json:"source"`
	Path     string `json:"path"`
	Codec    string `json:"codec"`
	Frames   int    `json:"frames" validate:"gte=0"`
	Threaded bool   `json:"threaded"`
	Step     int    `json:"step"`
	Width    int    `json:"width" validate:"gte=0 & lte=8192"`
	Height   int    `json:"height" validate:"gte=0 & lte=8192"`
	Label    string `json:"label"`
}

type Values struct {
	Debug      bool                   `json:"debug"`
	Backends   []string               `json:"backends"`
	Codec      string                 `json:"codec"`
	Auto       *bool                  `json:"auto"`
	FPS        int                    `json:"fps" validate:"gte=0 & lte=120"`
	OutputDir  string                 `json:"output_dir"`
	PluginDir  string                 `json:"plugin_dir"`
	Properties map[string]interface{} `json:"properties"`
	Playback   Playback               `json:"playback"`
	Database   string                 `json:"database"`
}

// RunValidate checks the field tags and then the rules spanning fields.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupBackends(v.Backends) {
		return fmt.Errorf(validationErrorHeader, errors.New("backend ids must be unique"))
	}
	switch v.Playback.Source {
	case "", SourcePattern:
	case SourceImages:
		if len(v.Playback.Path) == 0 {
			return fmt.Errorf(validationErrorHeader, errors.New("images playback needs a path"))
		}
	default:
		return fmt.Errorf(validationErrorHeader, fmt.Errorf("unknown playback source '%s'", v.Playback.Source))
	}
	if _, err := v.PropertySet(); err != nil {
		return fmt.Errorf(validationErrorHeader, err)
	}
	return nil
}

// AutoCapture is on unless the config turns it off.
func (v Values) AutoCapture() bool {
	return v.Auto == nil || *v.Auto
}

// PropertySet converts the configured properties, in key order.
func (v Values) PropertySet() (*videoprops.Properties, error) {
	keys := make([]string, 0, len(v.Properties))
	for k := range v.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := videoprops.New()
	for _, k := range keys {
		value, err := videoprops.FromInterface(v.Properties[k])
		if err != nil {
			return nil, fmt.Errorf("property '%s': %w", k, err)
		}
		props.Set(k, value)
	}
	return props, nil
}

func hasDupBackends(ids []string) bool {
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
