package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/pixrecord/pkg/config"
	"github.com/tauraamui/pixrecord/pkg/configdef"
)

func TestCreateResolveDestroyRoundTripOnDisk(t *testing.T) {
	is := is.New(t)
	logging.CurrentLoggingLevel = logging.SilentLevel

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	os.Setenv("PIXRECORD_CONFIG", path)
	defer os.Unsetenv("PIXRECORD_CONFIG")

	is.NoErr(config.DefaultCreator().Create())
	is.True(errors.Is(config.DefaultCreator().Create(), configdef.ErrConfigAlreadyExists))

	values, err := config.DefaultResolver().Resolve()
	is.NoErr(err)
	is.Equal(values.FPS, 25)
	is.Equal(values.Playback.Source, configdef.SourcePattern)

	is.NoErr(config.DefaultDestroyer().Destroy())
	_, err = os.Stat(path)
	is.True(os.IsNotExist(err))
}
