package generator

import (
	"errors"

	"git.home.luguber.info/inful/sitegen/internal/router"
)

// Sentinel errors wrapped by the classified error of each failing phase.
var (
	ErrDiscovery         = errors.New("discovery failed")
	ErrBuilderData       = errors.New("builder data contribution failed")
	ErrOutputPreparation = errors.New("output preparation failed")
	ErrBuilderBuild      = errors.New("builder build failed")
	ErrRegistryFrozen    = router.ErrFrozen
)
