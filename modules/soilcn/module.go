// Package soilcn registers the soil carbon and nitrogen model stage.
package soilcn

import (
	"context"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/handlers"
)

// Name is the registered stage name.
const Name = "soil_cn"

// Module implements the handlers.Module interface for this package.
type Module struct {
	Models collab.Models
}

// OnRunSoilCN runs the soil model for the selected management directory.
// It always runs; the soil model is what every batch run is for.
func (m *Module) OnRunSoilCN(ctx context.Context, rc *collab.RunContext) error {
	ctxlog.FromContext(ctx).Info("Running soil C and N model.", "mgmt_dir", rc.MgmtDir, "study", rc.Settings.String(config.KeyStudy))
	return m.Models.RunSoilCN(ctx, rc)
}

// Register registers the stage.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler(Name, &handlers.RegisteredHandler{
		Order: 10,
		Fn:    m.OnRunSoilCN,
	})
}
