package config

import (
	"github.com/coltranesx/Project-Area/domain/core/valueobjects"
)

// EditorSettings holds the defaults applied to nodes the editor creates.
type EditorSettings struct {
	DefaultTitle string             `yaml:"default_title" validate:"required"`
	DefaultLabel string             `yaml:"default_label" validate:"required"`
	DefaultColor valueobjects.Color `yaml:"default_color" validate:"required"`
	NodeWidth    float64            `yaml:"node_width" validate:"gt=0"`
	NodeHeight   float64            `yaml:"node_height" validate:"gt=0"`

	// New nodes are placed at a random point in [0, SpawnWidth) x [0, SpawnHeight).
	SpawnWidth  float64 `yaml:"spawn_width" validate:"gt=0"`
	SpawnHeight float64 `yaml:"spawn_height" validate:"gt=0"`

	Palette valueobjects.Palette `yaml:"palette" validate:"min=1,dive,required"`
}

// DefaultEditorSettings returns the settings used when no file overrides them
func DefaultEditorSettings() EditorSettings {
	return EditorSettings{
		DefaultTitle: "Yeni Başlık",
		DefaultLabel: "Yeni Kutu",
		DefaultColor: "#8F7A4A",
		NodeWidth:    200,
		NodeHeight:   120,
		SpawnWidth:   400,
		SpawnHeight:  400,
		Palette:      append(valueobjects.Palette(nil), valueobjects.DefaultPalette...),
	}
}

// NodeSize returns the default node box
func (s EditorSettings) NodeSize() valueobjects.Dimensions {
	return valueobjects.NewDimensions(s.NodeWidth, s.NodeHeight)
}
