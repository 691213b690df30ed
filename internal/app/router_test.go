package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seola0114/ux-writing-plugin/internal/config"
)

func TestBuildCORSConfig_DefaultsWhenOriginsEmpty(t *testing.T) {
	got := buildCORSConfig(&config.Config{})

	assert.False(t, got.AllowAllOrigins)
	assert.True(t, got.AllowCredentials)
	assert.Equal(t, []string{"https://www.figma.com"}, got.AllowOrigins)
	if assert.NotNil(t, got.AllowOriginFunc) {
		assert.True(t, got.AllowOriginFunc("null"))
		assert.False(t, got.AllowOriginFunc("https://evil.example"))
	}
	assert.NoError(t, got.Validate())
}

func TestBuildCORSConfig_TrimsOrigins(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{
		CORSOrigins: []string{" https://example.com/ ", ""},
	}}

	got := buildCORSConfig(cfg)
	assert.Equal(t, []string{"https://example.com"}, got.AllowOrigins)
	assert.Nil(t, got.AllowOriginFunc)
}

func TestBuildCORSConfig_WildcardDisablesCredentials(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{
		CORSOrigins: []string{"*", "https://example.com"},
	}}

	got := buildCORSConfig(cfg)
	assert.True(t, got.AllowAllOrigins)
	assert.False(t, got.AllowCredentials)
	assert.Empty(t, got.AllowOrigins)
	assert.NoError(t, got.Validate())
}

func TestOriginChecker(t *testing.T) {
	check := originChecker(&config.Config{})
	assert.True(t, check(""))
	assert.True(t, check("null"))
	assert.True(t, check("https://www.figma.com"))
	assert.False(t, check("https://evil.example"))

	all := originChecker(&config.Config{Server: config.ServerConfig{CORSOrigins: []string{"*"}}})
	assert.True(t, all("https://evil.example"))
}
