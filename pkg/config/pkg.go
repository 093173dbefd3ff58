package config

import (
	"os"

	"github.com/apex/log"
)

const DotenvPathEnvVar = "TEAMUP_DOTENV_PATH"

var configer Configer = NewDotenvConfig("")

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromDotenv loads the dotenv file named by TEAMUP_DOTENV_PATH (if set) and
// makes the resulting environment backed config the package default.
func MustLoadFromDotenv() Configer {
	c := NewDotenvConfig(os.Getenv(DotenvPathEnvVar))
	if err := c.Load(); err != nil {
		log.Fatalf("Failed loading configuration file %s: %s", c.DotenvPath, err)
	}

	SetConfig(c)
	return c
}

// MustLoadFromFile loads a viper supported config file and makes it the package default.
func MustLoadFromFile(path string) Configer {
	c := NewViperConfig("")
	if err := c.LoadFromPath(path); err != nil {
		log.Fatalf("Failed loading configuration file %s: %s", path, err)
	}

	SetConfig(c)
	return c
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}

func GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return configer.GetBoolKeyWithDefault(key, defaultValue)
}

func GetListKey(key string) []string {
	return configer.GetListKey(key)
}
