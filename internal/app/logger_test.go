package app

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

func TestLoggerOutput(t *testing.T) {
	var stdout bytes.Buffer

	tests := []struct {
		env, level string
		want       zerolog.Level
		console    bool
	}{
		{env: config.EnvProd, want: zerolog.InfoLevel},
		{env: config.EnvDev, want: zerolog.DebugLevel},
		{env: config.EnvLocal, want: zerolog.TraceLevel, console: true},
		{env: config.EnvProd, level: "warn", want: zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			lvl, w, err := loggerOutput(tt.env, tt.level, &stdout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl)

			_, isConsole := w.(zerolog.ConsoleWriter)
			assert.Equal(t, tt.console, isConsole)
		})
	}
}

func TestLoggerOutputErrors(t *testing.T) {
	_, _, err := loggerOutput("staging", "", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown env")

	_, _, err = loggerOutput(config.EnvDev, "loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLoggerFields(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(&out)

	logger.Info().Str("task_id", "t1").Msg("closed task")

	assert.Contains(t, out.String(), `"service":"tracker-api"`)
	assert.Contains(t, out.String(), `"task_id":"t1"`)
	assert.Contains(t, out.String(), `"pid":`)
}
