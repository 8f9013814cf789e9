package logger

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{name: "logs when MENU_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs when MENU_DEBUG is any value", envValue: "true", expectLog: true},
		{name: "silent when MENU_DEBUG is empty", envValue: "", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			t.Setenv(DebugEnv, tt.envValue)

			l := NewEnvLogger("[test]")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] test message arg")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[runner]")
	l.Info("info %d", 1)
	l.Warn("warn %d", 2)
	l.Error("error %d", 3)

	out := buf.String()
	assert.Contains(t, out, "[runner] info 1")
	assert.Contains(t, out, "[runner] WARN: warn 2")
	assert.Contains(t, out, "[runner] ERROR: error 3")
}

func TestNewSession(t *testing.T) {
	t.Setenv(DebugEnv, "")

	var buf bytes.Buffer
	l := NewSession(Options{
		Writer:    &buf,
		Verbose:   true,
		SessionID: "3f2a9c1e-0000-4000-8000-000000000000",
	})
	l.Debug("ran %s", "apt-get")

	assert.Contains(t, buf.String(), "[3f2a9c1e] ran apt-get")
}

func TestNewSession_QuietDebug(t *testing.T) {
	t.Setenv(DebugEnv, "")

	var buf bytes.Buffer
	l := NewSession(Options{Writer: &buf})
	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	require.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Len(t, shortID(a), 8)
}

func TestNoop(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()
	l.Info("hello %s", "world")
	l.Warn("careful")

	require.Len(t, l.Messages, 2)
	assert.Equal(t, LogMessage{Level: "info", Message: "hello world"}, l.Messages[0])
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.True(t, l.Contains("world"))

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("via default")

	assert.True(t, buf.Contains("via default"))
}
