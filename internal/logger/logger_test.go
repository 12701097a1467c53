package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("loaded projects", F("count", 3), F("error", errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "loaded projects", entry["message"])
	assert.EqualValues(t, 3, entry["count"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Output: &buf})
	require.NoError(t, err)

	l.WithFields(F("component", "api")).Warn("slow")
	assert.Contains(t, buf.String(), `"component":"api"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestLogger_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 200, MaxBackups: 2})
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 20; i++ {
		l.Info("a message long enough to fill the file quickly", F("i", i))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}

func TestGlobal_NoopBeforeInit(t *testing.T) {
	require.NoError(t, Close())
	Info("nobody listens")
	assert.Nil(t, WithFields(F("k", "v")))
}
