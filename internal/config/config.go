package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/configdef"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tauraamui"
	appName        = "pixrecord"
	configFileName = "config.json"
)

var fs afero.Fs = afero.NewOsFs()

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	applyDefaults(&values)

	return values, nil
}

func applyDefaults(values *configdef.Values) {
	if values.FPS == 0 {
		values.FPS = defaultSettings[FPS].(int)
	}
	if len(values.OutputDir) == 0 {
		values.OutputDir = defaultSettings[OUTPUTDIR].(string)
	}
	if values.Auto == nil {
		auto := defaultSettings[AUTO].(bool)
		values.Auto = &auto
	}
	pb := &values.Playback
	if len(pb.Source) == 0 {
		pb.Source = configdef.SourcePattern
	}
	if pb.Source == configdef.SourcePattern {
		if pb.Frames == 0 {
			pb.Frames = defaultSettings[PLAYBACKFRAMES].(int)
		}
		if pb.Width == 0 {
			pb.Width = defaultSettings[PLAYBACKWIDTH].(int)
		}
		if pb.Height == 0 {
			pb.Height = defaultSettings[PLAYBACKHEIGHT].(int)
		}
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("PIXRECORD_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
