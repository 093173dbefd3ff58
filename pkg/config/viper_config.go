package config

import (
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ViperConfig reads keys from a yaml/toml/json config file. Environment variables
// with the same name override file values.
type ViperConfig struct {
	keyReader
	v *viper.Viper
}

func NewViperConfig(path string) *ViperConfig {
	v := viper.New()
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}

	return &ViperConfig{
		keyReader: keyReader{lookup: v.GetString},
		v:         v,
	}
}

func (c *ViperConfig) LoadFromPath(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	c.v.SetConfigFile(expanded)
	return c.Load()
}

func (c *ViperConfig) Load() error {
	if c.v.ConfigFileUsed() == "" {
		return nil
	}

	if err := c.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %s", c.v.ConfigFileUsed())
	}

	return nil
}
