package config

import "sort"

var Presets = map[string]*Config{
	"water_cube": DefaultConfig(),
	"preview": {
		FramePattern: DefaultFramePattern, Export: true, Output: "preview.gif", FPS: 15,
		Encoder: "gif", Backend: "window", Loop: true,
		Colormap: DefaultColormap, Alpha: DefaultAlpha, Width: 320, Height: 240,
	},
	"terminal": {
		FramePattern: DefaultFramePattern, Export: false, Output: DefaultOutput, FPS: 15,
		Encoder: "auto", Backend: "terminal", Loop: true,
		Colormap: DefaultColormap, Alpha: DefaultAlpha, Width: DefaultWidth, Height: DefaultHeight,
	},
	"window": {
		FramePattern: DefaultFramePattern, Export: false, Output: DefaultOutput, FPS: DefaultFPS,
		Encoder: "auto", Backend: "window", Loop: false,
		Colormap: DefaultColormap, Alpha: DefaultAlpha, Width: DefaultWidth, Height: DefaultHeight,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
