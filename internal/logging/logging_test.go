// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSink_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSink(zap.New(core))

	s.Logit("Termination mode", 0, "")
	s.Logit("Illegal mode 42", -1, "AN")

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Level != zapcore.InfoLevel || all[0].Message != "Termination mode" {
		t.Fatalf("unexpected first entry %+v", all[0].Entry)
	}
	if all[0].LoggerName != "antcn" {
		t.Fatalf("logger name=%q", all[0].LoggerName)
	}

	warn := all[1]
	if warn.Level != zapcore.WarnLevel {
		t.Fatalf("level=%v want warn", warn.Level)
	}
	m := warn.ContextMap()
	if fmt.Sprint(m["code"]) != "-1" || m["domain"] != "AN" {
		t.Fatalf("unexpected fields %v", m)
	}
}

func TestBuild_ConsoleAndLevel(t *testing.T) {
	var buf bytes.Buffer

	l, closeFn, err := build(Config{Level: "warn"}, &buf, false)
	if err != nil {
		t.Fatalf("build err=%v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	_ = closeFn()

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filter broken: %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Fatalf("expected capital level: %q", out)
	}
}

func TestBuild_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antcn.log")

	l, closeFn, err := build(Config{Quiet: true, File: path, MaxSizeMB: 1}, nil, false)
	if err != nil {
		t.Fatalf("build err=%v", err)
	}
	l.Info("to file")
	if err := closeFn(); err != nil {
		t.Fatalf("close err=%v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Fatalf("file content %q", b)
	}
}

func TestBuild_BadLevel(t *testing.T) {
	if _, _, err := build(Config{Level: "loud"}, nil, false); err == nil {
		t.Fatalf("expected error for bad level")
	}
}

func TestBuild_QuietIsNop(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := build(Config{Quiet: true}, &buf, false)
	if err != nil {
		t.Fatalf("build err=%v", err)
	}
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("quiet logger wrote %q", buf.String())
	}
}
