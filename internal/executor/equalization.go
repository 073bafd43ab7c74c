package executor

import (
	"context"

	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/imaging"
	"github.com/ironsheep/histogram-update/internal/logger"
	"github.com/ironsheep/histogram-update/internal/model"
)

// Equalization enhances local contrast with CLAHE.
type Equalization struct {
	store frame.Store
	log   logger.Logger

	newEqualizer func(clipLimit float64, grid int) imaging.Equalizer
}

// NewEqualization creates an Equalization executor using the equalizer
// backend compiled into the binary. A nil logger discards output.
func NewEqualization(store frame.Store, log logger.Logger) *Equalization {
	if log == nil {
		log = logger.Nop()
	}
	return &Equalization{store: store, log: log, newEqualizer: imaging.NewEqualizer}
}

// Name implements Executor.
func (e *Equalization) Name() string { return model.ExecutorEqualization }

// Process equalizes f. An absent frame returns (nil, nil).
func (e *Equalization) Process(f *frame.Frame, cfg EqualizationConfig) (*frame.Frame, error) {
	return e.newEqualizer(cfg.ClipLimit, cfg.TileGrid).Equalize(f)
}

// Run implements Executor.
func (e *Equalization) Run(ctx context.Context, req *model.Request) (*model.Package, error) {
	logRequest(e.log, e.Name(), req)

	cfg, fallbacks := ParseEqualizationConfig(req.Configs)
	logFallbacks(e.log, e.Name(), fallbacks)

	in, err := fetchInput(ctx, e.store, req)
	if err != nil {
		return nil, err
	}
	if in == nil {
		e.log.Info("equalization", "no input image", map[string]interface{}{"uid": req.UID})
	}

	out, err := e.Process(in, cfg)
	if err != nil {
		return nil, err
	}

	ref, err := storeOutput(ctx, e.store, req.UID, out)
	if err != nil {
		return nil, err
	}

	e.log.Debug("equalization", "frame equalized", map[string]interface{}{
		"uid":        req.UID,
		"clip_limit": cfg.ClipLimit,
		"tile_grid":  cfg.TileGrid,
		"backend":    imaging.Backend,
	})

	return model.BuildEqualizationResponse(req.UID, ref)
}

var _ Executor = (*Equalization)(nil)
