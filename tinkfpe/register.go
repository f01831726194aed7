package tinkfpe

import (
	"sync"

	"github.com/google/tink/go/core/registry"
)

var registerOnce sync.Once

// Register registers the FPE KeyManager with Tink's registry. Safe to call
// any number of times; registration happens once per process.
func Register() error {
	var err error
	registerOnce.Do(func() {
		if _, getErr := registry.GetKeyManager(FPEKeyTypeURL); getErr == nil {
			return
		}
		err = registry.RegisterKeyManager(NewKeyManager())
	})
	return err
}
