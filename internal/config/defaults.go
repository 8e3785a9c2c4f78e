package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Default returns a fully-defaulted configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// WriteDefault renders a starter .catalyze.yml. It refuses to overwrite an
// existing file.
func WriteDefault(fs afero.Fs, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o644)
}
