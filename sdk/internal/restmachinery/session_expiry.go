package restmachinery

import "sync"

// sessionExpiryListeners fans a session expired event out to any number of
// subscribers.
type sessionExpiryListeners struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func()
}

func (s *sessionExpiryListeners) subscribe(handler func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = map[int]func(){}
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.handlers, id)
		})
	}
}

func (s *sessionExpiryListeners) publish() {
	s.mu.Lock()
	handlers := make([]func(), 0, len(s.handlers))
	for _, handler := range s.handlers {
		handlers = append(handlers, handler)
	}
	s.mu.Unlock()
	// Handlers are invoked without holding the lock so they may subscribe,
	// unsubscribe or issue further requests.
	for _, handler := range handlers {
		handler()
	}
}
