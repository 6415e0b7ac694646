// Package handlers holds the model stages a batch run executes. Modules
// register their stages at startup; the batch driver runs them in Order.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/orabatch/internal/collab"
)

// Stage is one model entry point.
type Stage func(ctx context.Context, rc *collab.RunContext) error

// Gate decides whether a stage applies to a run. A nil Gate always runs.
type Gate func(ctx context.Context, rc *collab.RunContext) bool

// Module is the interface that all stage modules implement to be registered.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered stages.
type Handlers struct {
	all map[string]*RegisteredHandler
}

// New creates an empty registry.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]*RegisteredHandler),
	}
}

// RegisteredHandler is a stage together with its position and gate.
type RegisteredHandler struct {
	Name  string
	Order int
	Gate  Gate
	Fn    Stage
}

// RegisterHandler registers a stage under name.
func (r *Handlers) RegisterHandler(name string, handler *RegisteredHandler) {
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("stage handler with name '%s' already registered", name))
	}
	if handler.Fn == nil {
		panic(fmt.Sprintf("stage handler '%s' has no function", name))
	}
	slog.Debug("Registering stage handler.", "name", name, "order", handler.Order)
	handler.Name = name
	r.all[name] = handler
}

// Len returns the number of registered stages.
func (r *Handlers) Len() int {
	return len(r.all)
}

// Ordered returns the stages sorted by Order, then by name.
func (r *Handlers) Ordered() []*RegisteredHandler {
	out := make([]*RegisteredHandler, 0, len(r.all))
	for _, h := range r.all {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Run executes every stage whose gate passes, stopping at the first error.
// It returns the names of the stages that ran.
func (r *Handlers) Run(ctx context.Context, rc *collab.RunContext, logger *slog.Logger) ([]string, error) {
	var ran []string
	for _, h := range r.Ordered() {
		if h.Gate != nil && !h.Gate(ctx, rc) {
			logger.Info("Stage skipped.", "stage", h.Name)
			continue
		}
		logger.Debug("Stage starting.", "stage", h.Name)
		if err := h.Fn(ctx, rc); err != nil {
			return ran, fmt.Errorf("stage %s: %w", h.Name, err)
		}
		ran = append(ran, h.Name)
	}
	return ran, nil
}
