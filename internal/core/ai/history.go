package ai

import (
	"bytes"
	"encoding/gob"
	"sync"
	"time"

	"github.com/zeusync/arena/pkg/encoding"
)

// Transition is one recorded mode change.
type Transition struct {
	At   time.Duration
	From Mode
	To   Mode
}

// History keeps the most recent transitions, oldest first, with binary (gob)
// persistence. A capacity of zero keeps nothing.
type History struct {
	mu       sync.RWMutex
	capacity int
	list     []Transition
}

var _ encoding.Serializable[History] = (*History)(nil)

func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{capacity: capacity, list: make([]Transition, 0, min(capacity, 128))}
}

func (h *History) Record(t Transition) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.capacity == 0 {
		return
	}
	if len(h.list) == h.capacity {
		copy(h.list, h.list[1:])
		h.list = h.list[:len(h.list)-1]
	}
	h.list = append(h.list, t)
}

func (h *History) Transitions() []Transition {
	h.mu.RLock()
	cp := make([]Transition, len(h.list))
	copy(cp, h.list)
	h.mu.RUnlock()
	return cp
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.list)
}

func (h *History) Reset() {
	h.mu.Lock()
	h.list = h.list[:0]
	h.mu.Unlock()
}

func (h *History) Serialize() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h.list); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize replaces the history, keeping only the newest entries that fit.
func (h *History) Deserialize(b []byte) error {
	var list []Transition
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&list); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(list) > h.capacity {
		list = list[len(list)-h.capacity:]
	}
	h.list = append(h.list[:0], list...)
	return nil
}
