package scheduler

import "sync"

// workspaceLocks hands out one mutex per workspace id. Entries are dropped
// once nobody holds or waits on them.
type workspaceLocks struct {
	mu sync.Mutex
	m  map[string]*workspaceLock
}

type workspaceLock struct {
	sync.Mutex
	refs int
}

func newWorkspaceLocks() *workspaceLocks {
	return &workspaceLocks{m: make(map[string]*workspaceLock)}
}

// lock blocks until the workspace is free and returns its unlock func.
func (l *workspaceLocks) lock(id string) func() {
	l.mu.Lock()
	wl, ok := l.m[id]
	if !ok {
		wl = &workspaceLock{}
		l.m[id] = wl
	}
	wl.refs++
	l.mu.Unlock()

	wl.Lock()
	return func() {
		wl.Unlock()
		l.mu.Lock()
		wl.refs--
		if wl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// held reports how many workspaces currently have a lock entry.
func (l *workspaceLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
