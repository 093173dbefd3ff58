package config

import (
	"strconv"
	"strings"

	"github.com/apex/log"
)

// keyReader implements the typed accessors of Configer given a raw lookup function.
type keyReader struct {
	lookup func(key string) string
}

func (r keyReader) GetKey(key string) string {
	return strings.TrimSpace(r.lookup(key))
}

func (r keyReader) MustGetKey(key string) string {
	val := r.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (r keyReader) GetKeyWithDefault(key, defaultValue string) string {
	if val := r.GetKey(key); val != "" {
		return val
	}

	return defaultValue
}

func (r keyReader) GetIntKey(key string) int {
	return r.GetIntKeyWithDefault(key, 0)
}

func (r keyReader) MustGetIntKey(key string) int {
	intVal, err := strconv.Atoi(r.GetKey(key))
	if err != nil {
		log.Fatalf("Required config key either doesn't exist or isn't an int: '%s': %s", key, err)
	}

	return intVal
}

func (r keyReader) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(r.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}

func (r keyReader) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	val := r.GetKey(key)
	if val == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Warnf("Config key '%s' has non-boolean value '%s', using default %t", key, val, defaultValue)
		return defaultValue
	}

	return b
}

// GetListKey splits a comma separated value, dropping empty entries.
func (r keyReader) GetListKey(key string) []string {
	var entries []string
	for _, entry := range strings.Split(r.GetKey(key), ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}

	return entries
}
