package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnExtractStart(_ context.Context, nodes, threads int) {
	h.logger.Debug("extract start", "nodes", nodes, "threads", threads)
}

func (h *LogHooks) OnExtractComplete(_ context.Context, distinct, observed int, d time.Duration, err error) {
	h.logger.Debug("extract done", "distinct", distinct, "observed", observed, "took", d, "err", err)
}

func (h *LogHooks) OnAssembleStart(_ context.Context, partitions int) {
	h.logger.Debug("assemble start", "partitions", partitions)
}

func (h *LogHooks) OnAssembleComplete(_ context.Context, applied, rejected int, d time.Duration, err error) {
	h.logger.Debug("assemble done", "applied", applied, "rejected", rejected, "took", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}
