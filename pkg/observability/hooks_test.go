package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnExtractStart(ctx, 100, 4)
	p.OnExtractComplete(ctx, 12, 180, time.Second, nil)
	p.OnAssembleStart(ctx, 12)
	p.OnAssembleComplete(ctx, 3, 9, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/infer")
	h.OnResponse(ctx, "POST", "/v1/infer", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ctx := context.Background()

	Reset()
	defer Reset()
	NewLogHooks(logger).Register()

	Pipeline().OnExtractStart(ctx, 7, 3)
	Pipeline().OnAssembleComplete(ctx, 2, 1, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "result")
	HTTP().OnResponse(ctx, "POST", "/v1/infer", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"extract start", "threads=3", "assemble done", "rejected=1", "cache miss", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
