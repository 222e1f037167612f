package closer

import (
	"sync"

	"github.com/meverselabs/ledger/common/rlog"
)

// Closer is Closer inferface
type Closer interface {
	Close()
}

// Manager closes the registered closers in the reverse order of registration
type Manager struct {
	sync.Mutex
	isClosed bool
	names    []string
	closers  []Closer
}

// NewManager returns a Manager
func NewManager() *Manager {
	return &Manager{}
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()
	return cm.isClosed
}

// Add adds a closer with a name
func (cm *Manager) Add(Name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()
	cm.names = append(cm.names, Name)
	cm.closers = append(cm.closers, c)
}

// CloseAll closers all closers once
func (cm *Manager) CloseAll() {
	cm.Lock()
	defer cm.Unlock()
	if cm.isClosed {
		return
	}
	cm.isClosed = true
	log := rlog.Named("closer")
	for i := len(cm.closers) - 1; i >= 0; i-- {
		log.Debugw("close", "name", cm.names[i])
		cm.closers[i].Close()
	}
}
