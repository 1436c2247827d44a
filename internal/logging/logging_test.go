package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/config"
)

func TestNew_JSONFormat(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "debug", Format: "json"})

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithField("path", "/events").Debug("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "/events", entry["path"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_LevelFallback(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "chatty", Format: "text"})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
