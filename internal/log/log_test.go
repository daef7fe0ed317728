// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestStdLoggerWritesLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf)
	if err := l.Log(LevelWarn, "disk on fire"); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "disk on fire") {
		t.Errorf("output = %q; want it to contain level and message", out)
	}
}

func TestFilterDropsBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewFilter(NewStdLogger(&buf), FilterLevel(LevelWarn))

	if err := l.Log(LevelDebug, "too quiet"); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Debug message passed a Warn filter: %q", buf.String())
	}

	if err := l.Log(LevelError, "too loud"); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "too loud") {
		t.Errorf("Error message was dropped by a Warn filter")
	}
}

func TestHelperRoutesToUnderlyingLogger(t *testing.T) {
	var buf bytes.Buffer
	h := NewHelper(NewStdLogger(&buf))
	h.Errorf("failed: %d", 42)
	if !strings.Contains(buf.String(), "failed: 42") {
		t.Errorf("output = %q; want formatted message", buf.String())
	}
}

func TestHelperNilReceiverIsANoOp(t *testing.T) {
	var h *Helper
	h.Debugf("this must not panic")
}

func TestDiscardDropsEverything(t *testing.T) {
	h := NewHelperDiscarding()
	h.Errorf("nobody will see this")
	if err := Discard.Log(LevelError, "nor this"); err != nil {
		t.Errorf("Discard.Log() returned an error: %v", err)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q; want %q", tt.level, got, tt.want)
		}
	}
}
