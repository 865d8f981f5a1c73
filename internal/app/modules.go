package app

import (
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/modules/logic"
	"github.com/vk/patchgrid/modules/scalar"
	"github.com/vk/patchgrid/modules/vector"
)

// coreModules is the definitive list of all operator modules compiled into
// the patchgrid binary.
var coreModules = []registry.Module{
	&scalar.Module{},
	&logic.Module{},
	&vector.Module{},
}
