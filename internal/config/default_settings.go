package config

type defaultSettingKey uint

const (
	FPS            defaultSettingKey = 0x0
	BACKENDS       defaultSettingKey = 0x1
	OUTPUTDIR      defaultSettingKey = 0x2
	PLAYBACKFRAMES defaultSettingKey = 0x3
	PLAYBACKWIDTH  defaultSettingKey = 0x4
	PLAYBACKHEIGHT defaultSettingKey = 0x5
	AUTO           defaultSettingKey = 0x6
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FPS:            25,
	BACKENDS:       []string{},
	OUTPUTDIR:      "takes",
	PLAYBACKFRAMES: 250,
	PLAYBACKWIDTH:  640,
	PLAYBACKHEIGHT: 480,
	AUTO:           true,
}
