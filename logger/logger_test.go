package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	var entry LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLoggerRedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service"}, &buf)

	l.Info(EventSubscription, "renewed", Fields("user_id", "u1", "password_hash", "abc", "lock_token", "t"))

	entry := decodeEntry(t, &buf)
	assert.Equal(t, LevelInfo, entry.Level)
	assert.Equal(t, "u1", entry.Details["user_id"])
	assert.Equal(t, "[REDACTED]", entry.Details["password_hash"])
	assert.Equal(t, "[REDACTED]", entry.Details["lock_token"])
}

func TestLoggerMasksEmailsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service"}, &buf)

	l.Warn(EventGeneral, "contact alice@example.com", Fields("error", errors.New("mail to bob@example.com failed")))

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "contact al***@example.com", entry.Message)
	assert.Equal(t, "mail to bo***@example.com failed", entry.Details["error"])
}

func TestLoggerSignatureVerifies(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service", HMACKey: "k"}, &buf)

	l.Error(EventDBError, "insert failed", nil)

	entry := decodeEntry(t, &buf)
	assert.True(t, l.Verify(entry))
	entry.Message = "tampered"
	assert.False(t, l.Verify(entry))
}

func TestDebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service", Environment: "production"}, &buf)

	l.Debug(EventGeneral, "noisy", nil)
	assert.Zero(t, buf.Len())
}

func TestStackTracesStrippedInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service", Environment: "production"}, &buf)

	l.Error(EventGeneral, "boom\ngoroutine 1 [running]:\nmain.run(0x1)\n\t/app/main.go:12 +0x1f\nafter", nil)

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "boom\nafter", entry.Message)
}

func TestStackTracesKeptOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(Config{ServiceName: "music-service"}, &buf)

	l.Error(EventGeneral, "boom\n\t/app/main.go:12", nil)
	assert.True(t, strings.Contains(decodeEntry(t, &buf).Message, "main.go"))
}

func TestSensitiveKeySuffixes(t *testing.T) {
	assert.True(t, isSensitiveKey("Admin_Password"))
	assert.True(t, isSensitiveKey("refresh_token"))
	assert.False(t, isSensitiveKey("track_id"))
}

func TestFieldsSkipsNonStringKeys(t *testing.T) {
	f := Fields("a", 1, 2, "b", "dangling")
	assert.Equal(t, map[string]interface{}{"a": 1}, f)
}
