package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/subosito/gotenv"
)

// DotenvConfig reads keys from the process environment after optionally loading a
// dotenv file into it. Values already present in the environment win over the file.
type DotenvConfig struct {
	keyReader
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{
		keyReader:  keyReader{lookup: os.Getenv},
		DotenvPath: path,
	}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

func (c *DotenvConfig) Load() error {
	if c.DotenvPath == "" {
		return nil
	}

	path, err := homedir.Expand(c.DotenvPath)
	if err != nil {
		return err
	}

	return gotenv.Load(path)
}
