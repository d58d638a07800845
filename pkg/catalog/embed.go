package catalog

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed catalog.yaml
var embeddedCatalog embed.FS

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded catalog.yaml. The
// catalog is parsed once; subsequent calls return the same instance.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Load(embeddedCatalog, "catalog.yaml")
		if defaultErr != nil {
			defaultErr = fmt.Errorf("catalog: load embedded catalog: %w", defaultErr)
		}
	})
	return defaultRegistry, defaultErr
}

// MustDefault panics if the embedded catalog fails to load. The embedded
// document is covered by tests, so a panic here means a broken build.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}
