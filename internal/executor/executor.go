package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/histogram-update/internal/frame"
	"github.com/ironsheep/histogram-update/internal/logger"
	"github.com/ironsheep/histogram-update/internal/model"
)

// ErrUnknownExecutor is returned by Registry.Lookup for unregistered names.
var ErrUnknownExecutor = errors.New("unknown executor")

// Executor runs one pipeline stage for a request.
type Executor interface {
	Name() string
	Run(ctx context.Context, req *model.Request) (*model.Package, error)
}

// Registry maps executor names to executors.
type Registry struct {
	executors map[string]Executor
}

// NewRegistry registers the given executors under their names. A later
// executor with the same name replaces an earlier one.
func NewRegistry(executors ...Executor) *Registry {
	r := &Registry{executors: make(map[string]Executor, len(executors))}
	for _, e := range executors {
		r.executors[e.Name()] = e
	}
	return r
}

// NewDefaultRegistry registers the Histogram and Equalization executors
// sharing one store and logger.
func NewDefaultRegistry(store frame.Store, log logger.Logger) *Registry {
	return NewRegistry(NewHistogram(store, log), NewEqualization(store, log))
}

// Lookup returns the executor registered under name.
func (r *Registry) Lookup(name string) (Executor, error) {
	e, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownExecutor, name, strings.Join(r.Names(), ", "))
	}
	return e, nil
}

// Names lists the registered executor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run dispatches req to the executor named by req.Executor.
func (r *Registry) Run(ctx context.Context, req *model.Request) (*model.Package, error) {
	e, err := r.Lookup(req.Executor)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, req)
}

// fetchInput resolves the request's input image. An absent reference yields
// the nil frame.
func fetchInput(ctx context.Context, store frame.Store, req *model.Request) (*frame.Frame, error) {
	ref, err := req.InputImage()
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, nil
	}
	f, err := store.Fetch(ctx, ref.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch input image: %w", err)
	}
	return f, nil
}

// storeOutput saves f under the request's owner and describes it.
func storeOutput(ctx context.Context, store frame.Store, owner string, f *frame.Frame) (*model.FrameRef, error) {
	if f == nil {
		return nil, nil
	}
	ref, err := store.Put(ctx, f, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to store output image: %w", err)
	}
	return model.NewFrameRef(ref, f), nil
}

func logRequest(log logger.Logger, executor string, req *model.Request) {
	keys := req.ConfigKeys()
	sort.Strings(keys)
	log.Debug("executor", "request received", map[string]interface{}{
		"executor":    executor,
		"uid":         req.UID,
		"config_keys": keys,
	})
}

func logFallbacks(log logger.Logger, executor string, fallbacks []Fallback) {
	for _, fb := range fallbacks {
		log.Warning("executor", "config value replaced by default", map[string]interface{}{
			"executor": executor,
			"key":      fb.Key,
			"raw":      fb.Raw,
			"default":  fb.Default,
		})
	}
}
