package logger

import (
	"bytes"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, isVerbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(isVerbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerboseOnlyLevels(t *testing.T) {
	t.Run("silent when not verbose", func(t *testing.T) {
		buf := capture(t, false)

		Debug("debug %d", 1)
		Info("info %d", 2)
		Section("Build")

		assert.Empty(t, buf.String())
	})

	t.Run("printed when verbose", func(t *testing.T) {
		buf := capture(t, true)

		Debug("debug %d", 1)
		Info("info %d", 2)
		Section("Build")

		assert.Equal(t, "[DEBUG] debug 1\n[INFO] info 2\n\n=== Build ===\n", buf.String())
	})
}

func TestAlwaysOnLevels(t *testing.T) {
	buf := capture(t, false)

	Warn("refresh of %s failed", "constitution")
	Error("index build: %v", "boom")

	assert.Equal(t, "[WARN] refresh of constitution failed\n[ERROR] index build: boom\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := capture(t, false)
	SetTimestamps(true)

	Warn("x")

	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \[WARN\] x\n$`), buf.String())
}
