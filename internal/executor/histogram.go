package executor

import (
	"context"

	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/logger"
	"github.com/ironsheep/histogram-update/internal/model"
)

// Histogram computes channel histograms and optionally replaces the image
// with a plot of them.
type Histogram struct {
	store frame.Store
	log   logger.Logger
}

// NewHistogram creates a Histogram executor. A nil logger discards output.
func NewHistogram(store frame.Store, log logger.Logger) *Histogram {
	if log == nil {
		log = logger.Nop()
	}
	return &Histogram{store: store, log: log}
}

// Name implements Executor.
func (h *Histogram) Name() string { return model.ExecutorHistogram }

// Process computes the enabled histograms of f over cfg.Range.
//
// The returned frame is the rendered plot when cfg.Plot is set and at least
// one channel is enabled; otherwise it is f itself. An absent or empty f is
// returned as is with an empty mapping.
func (h *Histogram) Process(f *frame.Frame, cfg HistogramConfig) (*frame.Frame, *imaging.Histograms, error) {
	if f.Empty() {
		return f, imaging.NewHistograms(), nil
	}

	hist, err := imaging.ComputeHistograms(f, cfg.Channels, cfg.Range)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Plot && hist.Len() > 0 {
		return imaging.RenderPlot(hist, cfg.Range), hist, nil
	}
	return f, hist, nil
}

// Run implements Executor.
func (h *Histogram) Run(ctx context.Context, req *model.Request) (*model.Package, error) {
	logRequest(h.log, h.Name(), req)

	cfg, fallbacks := ParseHistogramConfig(req.Configs)
	logFallbacks(h.log, h.Name(), fallbacks)

	in, err := fetchInput(ctx, h.store, req)
	if err != nil {
		return nil, err
	}

	out, hist, err := h.Process(in, cfg)
	if err != nil {
		return nil, err
	}

	if in.Empty() {
		h.log.Info("histogram", "no input image", map[string]interface{}{"uid": req.UID})
		out = nil
	}

	ref, err := storeOutput(ctx, h.store, req.UID, out)
	if err != nil {
		return nil, err
	}

	h.log.Debug("histogram", "histograms computed", map[string]interface{}{
		"uid":      req.UID,
		"channels": hist.Len(),
		"range":    cfg.Range.String(),
		"plot":     cfg.Plot && hist.Len() > 0,
	})

	return model.BuildHistogramResponse(req.UID, ref, hist)
}

var _ Executor = (*Histogram)(nil)
