package api

import "sync"

// hintHub fans inactivity hints out to websocket subscribers per session.
type hintHub struct {
	mu   sync.Mutex
	subs map[string]map[chan string]struct{}
}

func newHintHub() *hintHub {
	return &hintHub{subs: make(map[string]map[chan string]struct{})}
}

// Subscribe registers a listener for a session's hints. The returned cancel
// function must be called when the listener goes away.
func (h *hintHub) Subscribe(sessionID string) (<-chan string, func()) {
	ch := make(chan string, 4)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan string]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set := h.subs[sessionID]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a hint to all current subscribers of a session. Slow
// subscribers drop the hint rather than block the debounce callback.
func (h *hintHub) Publish(sessionID, hint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- hint:
		default:
		}
	}
}
