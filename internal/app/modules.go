package app

import (
	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/handlers"
	"github.com/vk/orabatch/modules/economics"
	"github.com/vk/orabatch/modules/livestock"
	"github.com/vk/orabatch/modules/soilcn"
)

// coreModules is the definitive list of the model stages compiled into the
// batch binary, bound to the given entry points.
func coreModules(models collab.Models) []handlers.Module {
	return []handlers.Module{
		&soilcn.Module{Models: models},
		&livestock.Module{Models: models},
		&economics.Module{Models: models},
	}
}
