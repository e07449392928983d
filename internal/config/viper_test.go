package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/pkg/errors"
)

func TestGetStringPrefersViper(t *testing.T) {
	t.Setenv("LEGISYNC_TEST_VALUE", "from-env")
	assert.Equal(t, "from-env", GetString("LEGISYNC_TEST_VALUE"))

	viper.Set("LEGISYNC_TEST_VALUE", "from-viper")
	t.Cleanup(viper.Reset)
	assert.Equal(t, "from-viper", GetString("LEGISYNC_TEST_VALUE"))
}

func TestRequire(t *testing.T) {
	_, err := Require("store", "LEGISYNC_TEST_MISSING")
	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "store", cfgErr.Component)

	t.Setenv("LEGISYNC_TEST_PRESENT", "x")
	value, err := Require("store", "LEGISYNC_TEST_PRESENT")
	require.NoError(t, err)
	assert.Equal(t, "x", value)
}

func TestGetAPIKeyPattern(t *testing.T) {
	t.Setenv("LEGISYNC_TEST_KEY", "lsk_abc123")

	key, err := GetAPIKey("store", "LEGISYNC_TEST_KEY", `^lsk_[a-z0-9]+$`)
	require.NoError(t, err)
	assert.Equal(t, "lsk_abc123", key)

	_, err = GetAPIKey("store", "LEGISYNC_TEST_KEY", `^other_`)
	assert.Error(t, err)

	key, err = GetAPIKey("store", "LEGISYNC_TEST_UNSET", `^lsk_`)
	require.NoError(t, err)
	assert.Empty(t, key)
}
