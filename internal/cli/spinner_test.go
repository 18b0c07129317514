package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Inferring...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not mark the spinner cancelled")
	}
	if !strings.Contains(out.String(), "Inferring...") {
		t.Errorf("spinner output %q should contain the message", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &syncBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(150 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Working...")
	s.Start()
	s.StopWithSuccess("Done!")

	s = newSpinner(context.Background(), &out, "Working...")
	s.Start()
	s.StopWithError("Failed!")

	got := out.String()
	for _, want := range []string{"Done!", "Failed!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q should contain %q", got, want)
		}
	}
}
