package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archscope/pkg/observability"
)

// logHooks reports store, layout and smell events to a logger at debug
// level, so --verbose traces what every command does to the graph.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnMutation(op, key string, revision uint64) {
	h.logger.Debug("store", "op", op, "key", key, "revision", revision)
}

func (h logHooks) OnRejected(op, key string, err error) {
	h.logger.Debug("store rejected", "op", op, "key", key, "err", err)
}

func (h logHooks) OnLayoutStart(vizType string, nodeCount int) {
	h.logger.Debug("layout started", "type", vizType, "nodes", nodeCount)
}

func (h logHooks) OnLayoutComplete(vizType string, nodeCount int, d time.Duration) {
	h.logger.Debug("layout done", "type", vizType, "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnScan(componentCount, pairCount int, d time.Duration) {
	h.logger.Debug("smell scan", "components", componentCount, "pairs", pairCount, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnRequest(context.Context, string, string) {}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "took", d)
	}
}

// registerHooks installs logger-backed hooks for every event family.
func registerHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetStoreHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetSmellHooks(h)
	observability.SetHTTPHooks(h)
}
