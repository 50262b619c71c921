package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnMutation(_ context.Context, op string, ok bool, d time.Duration) {
	h.logger.Debug("mutation", "op", op, "ok", ok, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnLoad(_ context.Context, key string, found bool, err error) {
	if err != nil {
		h.logger.Debug("load snapshot failed", "key", key, "err", err)
		return
	}
	h.logger.Debug("load snapshot", "key", key, "found", found)
}

func (h *logHooks) OnSave(_ context.Context, key string, size int, err error) {
	if err != nil {
		h.logger.Debug("save snapshot failed", "key", key, "err", err)
		return
	}
	h.logger.Debug("save snapshot", "key", key, "bytes", size)
}

func (h *logHooks) OnStoreGet(_ context.Context, backend string, hit bool, d time.Duration, err error) {
	h.logger.Debug("store get", "backend", backend, "hit", hit, "duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnStoreSet(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logger.Debug("store set", "backend", backend, "bytes", size, "duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnStoreDelete(_ context.Context, backend string, d time.Duration, err error) {
	h.logger.Debug("store delete", "backend", backend, "duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}
