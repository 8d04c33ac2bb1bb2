package config

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"github.com/tauraamui/pixrecord/pkg/video/videoprops"
)

var _ = Describe("Config", func() {
	var (
		fsRef            afero.Fs
		userConfigDirRef func() (string, error)
		memFs            afero.Fs
		configPath       = "/testroot/pixrecord/config.json"
	)

	BeforeEach(func() {
		fsRef, userConfigDirRef = fs, userConfigDir
		memFs = afero.NewMemMapFs()
		fs = memFs
		os.Setenv("PIXRECORD_CONFIG", configPath)
	})

	AfterEach(func() {
		fs, userConfigDir = fsRef, userConfigDirRef
		os.Unsetenv("PIXRECORD_CONFIG")
	})

	write := func(content string) {
		Expect(afero.WriteFile(memFs, configPath, []byte(content), 0666)).To(Succeed())
	}

	Context("resolveConfigPath", func() {
		It("Resolves the config path from ENV variable", func() {
			Expect(resolveConfigPath()).To(Equal(configPath))
		})

		It("Falls back to the user config dir", func() {
			os.Unsetenv("PIXRECORD_CONFIG")
			userConfigDir = func() (string, error) { return "/home/test/.config", nil }
			Expect(resolveConfigPath()).To(Equal("/home/test/.config/tauraamui/pixrecord/config.json"))
		})

		It("Reports user config dir failures", func() {
			os.Unsetenv("PIXRECORD_CONFIG")
			userConfigDir = func() (string, error) { return "", errors.New("no home") }
			_, err := resolveConfigPath()
			Expect(err).To(MatchError("unable to resolve config.json location: no home"))
		})
	})

	Context("Loading config", func() {
		It("Loads a full config and converts its properties", func() {
			write(`{
				"debug": true,
				"backends": ["images", "discard"],
				"codec": "png",
				"auto": true,
				"fps": 30,
				"output_dir": "/takes",
				"plugin_dir": "/plugins",
				"properties": {"quality": 80, "compression": "best"},
				"playback": {"source": "images", "path": "/in/frame_%05d.png", "threaded": true, "step": 2},
				"database": "/takes.db"
			}`)

			values, err := DefaultResolver().Resolve()
			Expect(err).To(BeNil())
			Expect(values.Debug).To(BeTrue())
			Expect(values.Backends).To(Equal([]string{"images", "discard"}))
			Expect(values.FPS).To(Equal(30))
			Expect(values.AutoCapture()).To(BeTrue())
			Expect(values.Playback.Threaded).To(BeTrue())
			Expect(values.Playback.Step).To(Equal(2))

			props, err := values.PropertySet()
			Expect(err).To(BeNil())
			Expect(props.Keys()).To(Equal([]string{"compression", "quality"}))
			Expect(props.Type("quality")).To(Equal(videoprops.NUMBER))
		})

		It("Fills defaults for a minimal config", func() {
			write(`{}`)
			values, err := DefaultResolver().Resolve()
			Expect(err).To(BeNil())
			Expect(values.FPS).To(Equal(25))
			Expect(values.OutputDir).To(Equal("takes"))
			Expect(values.Playback.Source).To(Equal("pattern"))
			Expect(values.Playback.Frames).To(Equal(250))
			Expect(values.AutoCapture()).To(BeTrue())
		})

		It("Keeps automatic capture off when configured", func() {
			write(`{ "auto": false }`)
			values, err := DefaultResolver().Resolve()
			Expect(err).To(BeNil())
			Expect(values.AutoCapture()).To(BeFalse())
		})

		It("Fails on invalid JSON", func() {
			write(`{ "debug" true, }`)
			_, err := DefaultResolver().Resolve()
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(HavePrefix("parsing configuration error:"))
		})

		It("Fails validation for out of range fps", func() {
			write(`{ "fps": 500 }`)
			_, err := DefaultResolver().Resolve()
			Expect(err).ToNot(BeNil())
		})

		It("Fails validation for duplicate backends", func() {
			write(`{ "backends": ["images", "images"] }`)
			_, err := DefaultResolver().Resolve()
			Expect(err).To(MatchError("validation failed: backend ids must be unique"))
		})

		It("Fails validation for unknown playback sources", func() {
			write(`{ "playback": {"source": "webcam"} }`)
			_, err := DefaultResolver().Resolve()
			Expect(err).To(MatchError("validation failed: unknown playback source 'webcam'"))
		})

		It("Fails when the file is missing", func() {
			_, err := DefaultResolver().Resolve()
			Expect(err).ToNot(BeNil())
		})
	})
})
