package server

import (
	"net/http"
	"testing"

	"github.com/Daskott/rolodex/shared"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionStore(t *testing.T) {
	store := newSessionStore(shared.SessionConfig{Keys: []string{"0123456789abcdef0123456789abcdef"}, MaxAge: 3600, Secure: true})

	assert.Equal(t, "/", store.Options.Path)
	assert.Equal(t, 3600, store.Options.MaxAge)
	assert.True(t, store.Options.HttpOnly)
	assert.True(t, store.Options.Secure)
	assert.Equal(t, http.SameSiteLaxMode, store.Options.SameSite)

	assert.NotNil(t, newSessionStore(shared.SessionConfig{}))
}

func TestLoadKeyPair(t *testing.T) {
	_, err := loadKeyPair("", false)
	assert.NotNil(t, err)

	keyPair, err := loadKeyPair("", true)
	assert.Nil(t, err)
	assert.NotEmpty(t, keyPair.Kid)
}

func TestLoadConfig(t *testing.T) {
	validConfig := func() *viper.Viper {
		config := viper.New()
		config.Set("sqlite.passPhrase", "passphrase")
		config.Set("rolodex.cron.timeZone", "UTC")
		config.Set("rolodex.listener.port", 3000)
		return config
	}

	t.Run("valid config", func(t *testing.T) {
		serverConfig, err := LoadConfig(validConfig())

		assert.Nil(t, err)
		assert.Equal(t, 3000, serverConfig.Rolodex.Listener.Port)
		assert.Equal(t, 0, serverConfig.Rolodex.SignedURL.LifespanInSeconds)
	})

	t.Run("missing pass phrase", func(t *testing.T) {
		config := validConfig()
		config.Set("sqlite.passPhrase", "")

		_, err := LoadConfig(config)
		assert.NotNil(t, err)
	})

	t.Run("backup without a bucket", func(t *testing.T) {
		config := validConfig()
		config.Set("google.storage.enableSqliteBackupAndSync", true)

		_, err := LoadConfig(config)
		assert.NotNil(t, err)
	})
}
