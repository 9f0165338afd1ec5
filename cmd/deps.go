package cmd

import (
	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/devices"
	"github.com/VoxDroid/sunprep/internal/executor"
)

func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(appConfig.CatalogFile)
}

// newRunner is swapped in tests to keep helper programs from running.
var newRunner = func() executor.Runner {
	return executor.New(appConfig.ToolTimeout, appConfig.Root)
}

func newProvider() *devices.Provider {
	return devices.NewProvider(newRunner(), appConfig.ToolsDir)
}
