package service

import "sync"

// roomLocker serializes move, pass and resign handling per room. Concurrent
// requests against different rooms never contend.
type roomLocker struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func newRoomLocker() *roomLocker {
	return &roomLocker{
		rooms: make(map[string]*sync.Mutex),
	}
}

// Get returns the mutex for a room, creating it on first use. Holders keep
// their reference even after Forget, so a late Unlock is always safe.
func (that *roomLocker) Get(roomID string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.rooms[roomID]
	if !ok {
		lock = &sync.Mutex{}
		that.rooms[roomID] = lock
	}

	return lock
}

// Forget drops the lock entry once a room is removed.
func (that *roomLocker) Forget(roomID string) {
	that.mu.Lock()
	delete(that.rooms, roomID)
	that.mu.Unlock()
}
