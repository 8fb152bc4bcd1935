package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_ProvisioningAddsListAndSubsystem(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	logger.Provisioning("List ensured", "Projects", "created", true)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "List ensured", entry["msg"])
	assert.Equal(t, "provisioning", entry["subsystem"])
	assert.Equal(t, "Projects", entry["list"])
	assert.Equal(t, true, entry["created"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_ProvisioningError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	logger.ProvisioningError("Field failed", errors.New("boom"), "Tasks")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "Tasks", entry["list"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&Config{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.SharePoint("also hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	ctx := ContextWithRunID(context.Background(), "run-1")
	logger.WithContext(ctx).WithComponent("provisioner").Info("started")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "provisioner", entry["component"])
}

func TestLogger_WithContextWithoutRunID(t *testing.T) {
	logger := NewLoggerWithWriter(DefaultConfig(), &bytes.Buffer{})
	assert.Same(t, logger, logger.WithContext(context.Background()))
}
