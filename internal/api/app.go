package api

import (
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

// App is the dependency surface handlers pull from.
type App interface {
	Logger() internal.Logger
	Store() storage.Store
	// SeedEnabled gates the demo /api/reset endpoint.
	SeedEnabled() bool
}
