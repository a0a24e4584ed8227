package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, Level("DEBUG"))
	require.Equal(t, logrus.WarnLevel, Level("warning"))
	require.Equal(t, logrus.PanicLevel, Level("silent"))
	require.Equal(t, logrus.InfoLevel, Level(""))
	require.Equal(t, logrus.InfoLevel, Level("chatty"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info", "json")

	l.WithField("job_id", "n1").Info("[Jobs] created")
	l.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "[Jobs] created", entry["msg"])
	require.Equal(t, "n1", entry["job_id"])
}
