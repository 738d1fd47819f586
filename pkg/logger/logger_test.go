package logger

import (
	"testing"

	"pathfinder_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetModeSwitchesLevel(t *testing.T) {
	SetMode("debug")
	assert.Equal(t, zap.DebugLevel, Level())

	Reload(&config.Config{Server: config.ServerConfig{Mode: "release"}})
	assert.Equal(t, zap.InfoLevel, Level())
}
