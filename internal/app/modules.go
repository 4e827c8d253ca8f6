package app

import (
	"github.com/specialistvlad/burstmatrix/internal/registry"
	"github.com/specialistvlad/burstmatrix/modules/checkout"
	"github.com/specialistvlad/burstmatrix/modules/cross"
	"github.com/specialistvlad/burstmatrix/modules/print"
	"github.com/specialistvlad/burstmatrix/modules/shell_script"
)

// coreModules is the definitive list of all modules that are compiled into
// the burstmatrix binary.
var coreModules = []registry.Module{
	&checkout.Module{},
	&cross.Module{},
	&shell_script.Module{},
	&print.Module{},
}
