package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WithoutWriter(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		log, err := New(env, nil)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}

func TestNew_TeesToWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("production", &buf)
	require.NoError(t, err)

	log.Info("http_request", zap.String("path", "/myQueries"), zap.Int("status", 200))
	_ = log.Sync()

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/myQueries", entry["path"])
	assert.Contains(t, entry, "timestamp")
}

func TestStdoutEncoder_FollowsEnv(t *testing.T) {
	entry := zapcore.Entry{Level: zapcore.InfoLevel, Message: "http_request"}

	buf, err := stdoutEncoder(newConfig("production")).EncodeEntry(entry, []zapcore.Field{zap.Int("status", 200)})
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), "production stdout must be JSON")
	assert.Equal(t, "http_request", decoded["msg"])

	buf, err = stdoutEncoder(newConfig("development")).EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), "http_request")
}
