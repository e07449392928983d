// Package config reads settings from Viper and the process environment.
package config

import (
	"os"
	"regexp"

	"github.com/spf13/viper"

	"github.com/openstatehouse/legisync/pkg/errors"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Require returns the value of key or a ConfigError naming the key.
func Require(component, key string) (string, error) {
	value := GetString(key)
	if value == "" {
		return "", errors.NewConfigError(component, key+" is not set", nil)
	}
	return value, nil
}

// GetAPIKey retrieves an API key and checks it against pattern. An empty
// pattern accepts any value. A missing key is not an error; callers that
// need one use Require.
func GetAPIKey(component, key, pattern string) (string, error) {
	apiKey := GetString(key)
	if apiKey == "" || pattern == "" || pattern == ".*" {
		return apiKey, nil
	}

	matched, err := regexp.MatchString(pattern, apiKey)
	if err != nil {
		return "", errors.NewConfigError(component, "invalid pattern "+pattern, err)
	}
	if !matched {
		return "", errors.NewConfigError(component, key+" does not match the required pattern", nil)
	}
	return apiKey, nil
}
