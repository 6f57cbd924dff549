package state

// Subscribe returns a channel that receives the latest snapshot after every
// mutation. The channel buffers one snapshot; a newer snapshot replaces an
// unread older one so slow readers only ever see the latest state. Call the
// returned function to unsubscribe; it closes the channel.
func (store *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	store.subMu.Lock()
	id := store.nextSub
	store.nextSub++
	store.subscribers[id] = ch
	store.subMu.Unlock()

	cancel := func() {
		store.subMu.Lock()
		if sub, ok := store.subscribers[id]; ok {
			delete(store.subscribers, id)
			close(sub)
		}
		store.subMu.Unlock()
	}
	return ch, cancel
}

func (store *Store) publish(snap Snapshot) {
	store.subMu.Lock()
	defer store.subMu.Unlock()

	if snap.Version <= store.published {
		// A concurrent mutation already published a newer snapshot.
		return
	}
	store.published = snap.Version

	for _, ch := range store.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
