package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	domainconfig "github.com/coltranesx/Project-Area/domain/config"
	"github.com/coltranesx/Project-Area/pkg/utils"
	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML file at path onto target. Keys absent from the
// file leave target untouched; unknown keys are an error.
func LoadFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := decodeYAML(data, target); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func decodeYAML(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadSettings reads editor settings from path on top of the defaults. An
// empty path yields the defaults.
func LoadSettings(path string) (domainconfig.EditorSettings, error) {
	settings := domainconfig.DefaultEditorSettings()
	if path == "" {
		return settings, nil
	}
	if err := LoadFile(path, &settings); err != nil {
		return domainconfig.EditorSettings{}, err
	}
	if err := utils.ValidateStruct(settings); err != nil {
		return domainconfig.EditorSettings{}, fmt.Errorf("invalid editor settings in %s: %w", path, err)
	}
	return settings, nil
}
