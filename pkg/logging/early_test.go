package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarlyLog(t *testing.T) {
	var buf bytes.Buffer
	log := &EarlyLog{service: "indicator-service", out: &buf}

	log.Error("Failed to load config: %v", "missing postgres host")
	log.Warn("Config file not set")
	log.Info("Loading %s", "config.yaml")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3, "Error does not exit")
	assert.Contains(t, lines[0], "\terror\tservice_name=indicator-service\tFailed to load config: missing postgres host")
	assert.Contains(t, lines[1], "\twarn\t")
	assert.Contains(t, lines[2], "Loading config.yaml")
}
