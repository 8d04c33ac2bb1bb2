package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tauraamui/pixrecord/pkg/configdef"
	"github.com/tauraamui/pixrecord/pkg/log"
	"github.com/tauraamui/xerror"
)

func create() error {
	data, err := loadRawDefaultConfig()
	if err != nil {
		log.Error("unable to init default config into memory: %v", err)
		return err
	}

	path, err := resolveConfigPathEnsureParent()
	if err != nil {
		return err
	}

	err = writeConfigToDisk(data, path, false)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return configdef.ErrConfigAlreadyExists
		}
		return err
	}

	return nil
}

func destroy() error {
	path, err := resolveConfigPath()
	if err != nil {
		return xerror.Errorf("unable to delete config file: %w", err)
	}
	return fs.Remove(path)
}

func writeConfigToDisk(data []byte, path string, overwrite bool) error {
	flags := os.O_RDWR | os.O_CREATE
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := fs.OpenFile(path, flags, 0666)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}
	defer file.Close()

	bc, err := file.Write(data)
	if err != nil {
		return xerror.Errorf("unable to write config to file: %s: %w", path, err)
	}

	if bc != len(data) {
		return xerror.Errorf("unable to write full config data to file: %s", path)
	}

	return nil
}

func loadRawDefaultConfig() ([]byte, error) {
	auto := defaultSettings[AUTO].(bool)
	return json.MarshalIndent(
		configdef.Values{
			Backends:   defaultSettings[BACKENDS].([]string),
			Auto:       &auto,
			FPS:        defaultSettings[FPS].(int),
			OutputDir:  defaultSettings[OUTPUTDIR].(string),
			Properties: map[string]interface{}{},
			Playback: configdef.Playback{
				Source: configdef.SourcePattern,
				Frames: defaultSettings[PLAYBACKFRAMES].(int),
				Step:   1,
				Width:  defaultSettings[PLAYBACKWIDTH].(int),
				Height: defaultSettings[PLAYBACKHEIGHT].(int),
			},
		}, "", " ")
}

func resolveConfigPathEnsureParent() (string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return "", err
	}

	parentDirPath := filepath.Dir(path)
	if _, err := fs.Stat(parentDirPath); errors.Is(err, os.ErrNotExist) {
		err = fs.MkdirAll(parentDirPath, os.ModeDir|os.ModePerm)
		if err != nil {
			return "", xerror.Errorf("unable to create config parent directory: %w", err)
		}
	}

	return path, nil
}
