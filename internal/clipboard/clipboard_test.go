package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	err   error
	texts []string
}

func (w *fakeWriter) WriteText(_ context.Context, text string) error {
	w.texts = append(w.texts, text)
	return w.err
}

type fakeSurface struct {
	insertErr error
	regions   []*fakeRegion
	copyErr   error
}

func (s *fakeSurface) Insert(text string) (Region, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	r := &fakeRegion{text: text, copyErr: s.copyErr}
	s.regions = append(s.regions, r)
	return r, nil
}

type fakeRegion struct {
	text     string
	calls    []string
	copies   int
	copyErr  error
	attached bool
}

func (r *fakeRegion) Focus()     { r.attached = true; r.calls = append(r.calls, "focus") }
func (r *fakeRegion) SelectAll() { r.calls = append(r.calls, "select") }
func (r *fakeRegion) ExecCopy() error {
	r.copies++
	r.calls = append(r.calls, "copy")
	return r.copyErr
}
func (r *fakeRegion) Remove() { r.attached = false; r.calls = append(r.calls, "remove") }

type fakeTarget struct {
	handler func(ctx context.Context)
}

func (t *fakeTarget) OnClick(h func(ctx context.Context)) { t.handler = h }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

// TestCopyPrimarySuccessSkipsFallback checks the happy path has no side effects.
func TestCopyPrimarySuccessSkipsFallback(t *testing.T) {
	logger, logs := observed()
	w := &fakeWriter{}
	s := &fakeSurface{}
	h := &Helper{Primary: w, Fallback: s, Logger: logger}

	h.Copy(context.Background(), "link")

	if len(w.texts) != 1 || w.texts[0] != "link" {
		t.Fatalf("unexpected primary writes %v", w.texts)
	}
	if len(s.regions) != 0 {
		t.Fatalf("fallback must not run on success")
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no log lines, got %d", logs.Len())
	}
}

// TestCopyFallbackRunsOnceAndRemovesRegion covers a rejected write with a
// failing legacy copy.
func TestCopyFallbackRunsOnceAndRemovesRegion(t *testing.T) {
	logger, logs := observed()
	s := &fakeSurface{copyErr: errors.New("copy command unsupported")}
	h := &Helper{Primary: &fakeWriter{err: errors.New("permission denied")}, Fallback: s, Logger: logger}

	h.Copy(context.Background(), "link")

	if len(s.regions) != 1 {
		t.Fatalf("expected one region, got %d", len(s.regions))
	}
	r := s.regions[0]
	if r.copies != 1 {
		t.Fatalf("expected exactly one copy command, got %d", r.copies)
	}
	if r.attached {
		t.Fatalf("region still attached after fallback")
	}
	if got := strings.Join(r.calls, ","); got != "focus,select,copy,remove" {
		t.Fatalf("unexpected call order %s", got)
	}
	if logs.FilterMessage("clipboard write failed").Len() != 1 {
		t.Fatalf("expected primary failure to be logged")
	}
	if logs.FilterMessage("clipboard fallback copy failed").Len() != 1 {
		t.Fatalf("expected fallback failure to be logged")
	}
}

// TestFallbackRemovesRegionOnSuccess removes the region after a good copy too.
func TestFallbackRemovesRegionOnSuccess(t *testing.T) {
	s := &fakeSurface{}
	h := &Helper{Fallback: s}
	h.FallbackCopy("text")
	if len(s.regions) != 1 || s.regions[0].attached || s.regions[0].copies != 1 {
		t.Fatalf("unexpected region state %+v", s.regions)
	}
}

// TestFallbackInsertFailureIsSwallowed logs and stops.
func TestFallbackInsertFailureIsSwallowed(t *testing.T) {
	logger, logs := observed()
	h := &Helper{Fallback: &fakeSurface{insertErr: errors.New("no terminal")}, Logger: logger}
	h.FallbackCopy("text")
	if logs.FilterMessage("clipboard fallback insert failed").Len() != 1 {
		t.Fatalf("expected insert failure to be logged")
	}
}

// TestBindCopiesOnClick wires the handler to the target.
func TestBindCopiesOnClick(t *testing.T) {
	w := &fakeWriter{}
	target := &fakeTarget{}
	h := &Helper{Primary: w, Fallback: &fakeSurface{}}
	h.Bind(target, "fixed")
	if target.handler == nil {
		t.Fatalf("expected click handler")
	}
	target.handler(context.Background())
	target.handler(context.Background())
	if len(w.texts) != 2 || w.texts[1] != "fixed" {
		t.Fatalf("unexpected writes %v", w.texts)
	}
}

// TestSystemWriterUnsupported reports a platform without a clipboard tool.
func TestSystemWriterUnsupported(t *testing.T) {
	called := false
	w := &SystemWriter{unsupported: true, writeAll: func(string) error {
		called = true
		return nil
	}}
	if err := w.WriteText(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if called {
		t.Fatalf("expected no write on an unsupported platform")
	}
}

// TestSystemWriterPassesText hands the text to the platform write and returns its error.
func TestSystemWriterPassesText(t *testing.T) {
	var got string
	w := &SystemWriter{writeAll: func(text string) error {
		got = text
		return errors.New("exit status 1")
	}}
	err := w.WriteText(context.Background(), "hello")
	if err == nil || err.Error() != "exit status 1" {
		t.Fatalf("expected the write error, got %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

// TestSystemWriterStuckWriteFallsBack abandons a write that never returns and
// lets the helper fall back.
func TestSystemWriterStuckWriteFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	w := &SystemWriter{writeAll: func(string) error {
		<-release
		return nil
	}}
	surface := &fakeSurface{}
	h := &Helper{Primary: w, Fallback: surface}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	h.Copy(ctx, "link")

	if len(surface.regions) != 1 {
		t.Fatalf("expected fallback after timeout, got %d regions", len(surface.regions))
	}
}

// TestOSC52RegionWritesSequence checks the escape sequence carries the text.
func TestOSC52RegionWritesSequence(t *testing.T) {
	var out bytes.Buffer
	s := &OSC52Surface{out: &out, getenv: func(string) string { return "" }}
	r, err := s.Insert("hello")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := r.ExecCopy(); !errors.Is(err, errNotSelected) {
		t.Fatalf("expected errNotSelected before selection, got %v", err)
	}
	r.Focus()
	r.SelectAll()
	if err := r.ExecCopy(); err != nil {
		t.Fatalf("exec copy: %v", err)
	}
	if !strings.Contains(out.String(), base64.StdEncoding.EncodeToString([]byte("hello"))) {
		t.Fatalf("sequence missing payload: %q", out.String())
	}
	r.Remove()
	if err := r.ExecCopy(); !errors.Is(err, errRemoved) {
		t.Fatalf("expected errRemoved, got %v", err)
	}
}
