package livestock_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/handlers"
	"github.com/vk/orabatch/modules/economics"
	"github.com/vk/orabatch/modules/livestock"
)

type countingModels struct {
	collab.Unlinked
	hasData bool
	checks  int
	ran     []string
}

func (m *countingModels) CheckLivestockRunData(context.Context, *collab.RunContext) bool {
	m.checks++
	return m.hasData
}

func (m *countingModels) RunLivestock(context.Context, *collab.RunContext) error {
	m.ran = append(m.ran, livestock.Name)
	return nil
}

func (m *countingModels) RunEconomics(context.Context, *collab.RunContext) error {
	m.ran = append(m.ran, economics.Name)
	return nil
}

func TestGate_EconomicsReusesLivestockCheck(t *testing.T) {
	t.Parallel()
	for _, hasData := range []bool{true, false} {
		models := &countingModels{hasData: hasData}
		h := handlers.New()
		(&livestock.Module{Models: models}).Register(h)
		(&economics.Module{Models: models}).Register(h)

		rc := &collab.RunContext{}
		ran, err := h.Run(context.Background(), rc, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err)
		require.Equal(t, 1, models.checks)
		require.Equal(t, hasData, rc.LivestockRunData)
		if hasData {
			require.Equal(t, []string{livestock.Name, economics.Name}, ran)
		} else {
			require.Empty(t, ran)
		}
		require.Equal(t, ran, models.ran)
	}
}
