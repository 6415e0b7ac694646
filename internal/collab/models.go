package collab

import (
	"context"

	"github.com/vk/orabatch/internal/ctxlog"
)

// Unlinked stands in for the simulation engine when none is linked into the
// binary. Each entry point logs what it would have been given.
type Unlinked struct{}

func (Unlinked) RunSoilCN(ctx context.Context, rc *RunContext) error {
	ctxlog.FromContext(ctx).Warn("Soil carbon-nitrogen model not linked; skipping.", "mgmt_dir", rc.MgmtDir)
	return nil
}

// CheckLivestockRunData is false without an engine, so livestock and
// economics are skipped.
func (Unlinked) CheckLivestockRunData(ctx context.Context, rc *RunContext) bool {
	return false
}

func (Unlinked) RunLivestock(ctx context.Context, rc *RunContext) error {
	ctxlog.FromContext(ctx).Warn("Livestock model not linked; skipping.", "mgmt_dir", rc.MgmtDir)
	return nil
}

func (Unlinked) RunEconomics(ctx context.Context, rc *RunContext) error {
	ctxlog.FromContext(ctx).Warn("Economics model not linked; skipping.", "mgmt_dir", rc.MgmtDir)
	return nil
}
