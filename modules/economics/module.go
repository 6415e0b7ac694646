// Package economics registers the farm economics stage. It consumes the
// livestock results and only runs when the livestock stage found run data.
package economics

import (
	"context"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/handlers"
)

// Name is the registered stage name.
const Name = "economics"

// Module implements the handlers.Module interface for this package.
type Module struct {
	Models collab.Models
}

// OnRunEconomics runs the economics model against the purchases, sales and
// labour workbook resolved during setup.
func (m *Module) OnRunEconomics(ctx context.Context, rc *collab.RunContext) error {
	ctxlog.FromContext(ctx).Info("Running economics model.", "econ_xls", rc.Settings.String(config.KeyEconXLSFn))
	return m.Models.RunEconomics(ctx, rc)
}

func hasLivestockRunData(_ context.Context, rc *collab.RunContext) bool {
	return rc.LivestockRunData
}

// Register registers the stage.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler(Name, &handlers.RegisteredHandler{
		Order: 30,
		Gate:  hasLivestockRunData,
		Fn:    m.OnRunEconomics,
	})
}
