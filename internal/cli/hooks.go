package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/candlecake/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetCodecHooks(h)
	observability.SetBlowHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnEncode(_ context.Context, candles, tokenLen int) {
	h.logger.Debug("Encoded", "candles", candles, "token_len", tokenLen)
}

func (h *logHooks) OnDecode(_ context.Context, tokenLen, candles, dropped int, malformed bool) {
	h.logger.Debug("Decoded", "token_len", tokenLen, "candles", candles, "dropped", dropped, "malformed", malformed)
}

func (h *logHooks) OnSample(_ context.Context, level float64, blowing bool) {
	h.logger.Debug("Sample", "level", level, "blowing", blowing)
}

func (h *logHooks) OnBlow(_ context.Context, level float64, extinguished int) {
	h.logger.Debug("Blow", "level", level, "extinguished", extinguished)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("Store hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("Store miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("Store set", "kind", kind, "bytes", size)
}
