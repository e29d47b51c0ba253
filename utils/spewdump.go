package utils

import (
	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
}

// SDump renders any value as an indented text dump for the debug endpoint.
func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}
