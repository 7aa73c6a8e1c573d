package modelstore

import (
	"sync"

	"github.com/gamelens/foresight/internal/contract"
)

// StoreManagerImpl manages the shared ModelStore instance.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointer during initialization
	model        contract.ModelStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetModelStore returns the model snapshot store.
func (mgr *StoreManagerImpl) GetModelStore() contract.ModelStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.model
}
