package bhandar

import "sync"

type feed struct {
	mutex sync.RWMutex
	next  int
	subs  map[int]chan Event
}

// publish never blocks; a subscriber whose buffer is full misses the event.
// Callers hold the shard lock of ev.Key, which orders events per key.
func (f *feed) publish(ev Event) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (f *feed) subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, max(buffer, 1))

	f.mutex.Lock()
	if f.subs == nil {
		f.subs = map[int]chan Event{}
	}
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mutex.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mutex.Lock()
			delete(f.subs, id)
			close(ch)
			f.mutex.Unlock()
		})
	}
}

func (f *feed) len() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return len(f.subs)
}
