package lifecycle

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

type poolLock struct {
	sync.Mutex
	refs int
}

// poolLocker hands out one mutex per pool address and drops it once no
// goroutine holds or waits for it.
type poolLocker struct {
	lock  *sync.Mutex
	locks map[solana.PublicKey]*poolLock
}

func newPoolLocker() *poolLocker {
	return &poolLocker{
		lock:  &sync.Mutex{},
		locks: make(map[solana.PublicKey]*poolLock),
	}
}

func (l *poolLocker) acquire(addr solana.PublicKey) func() {
	l.lock.Lock()
	pl, ok := l.locks[addr]
	if !ok {
		pl = &poolLock{}
		l.locks[addr] = pl
	}
	pl.refs++
	l.lock.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()

		l.lock.Lock()
		defer l.lock.Unlock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, addr)
		}
	}
}
