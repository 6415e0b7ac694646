// Package livestock registers the livestock model stage. It only runs when
// the management directory carries livestock run data.
package livestock

import (
	"context"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/handlers"
)

// Name is the registered stage name.
const Name = "livestock"

// Module implements the handlers.Module interface for this package.
type Module struct {
	Models collab.Models
}

// checkRunData records the check on rc so later stages share it.
func (m *Module) checkRunData(ctx context.Context, rc *collab.RunContext) bool {
	rc.LivestockRunData = m.Models.CheckLivestockRunData(ctx, rc)
	return rc.LivestockRunData
}

// Register registers the stage.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler(Name, &handlers.RegisteredHandler{
		Order: 20,
		Gate:  m.checkRunData,
		Fn:    m.Models.RunLivestock,
	})
}
