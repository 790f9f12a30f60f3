package conversation

import "github.com/eapache/queue/v2"

// history — FIFO фиксированной ёмкости: при переполнении выкидываем самую старую запись
type history struct {
	items    *queue.Queue[Entry]
	capacity int
}

func newHistory(capacity int) *history {
	return &history{
		items:    queue.New[Entry](),
		capacity: capacity,
	}
}

func (h *history) push(e Entry) {
	for h.items.Length() >= h.capacity {
		h.items.Remove()
	}
	h.items.Add(e)
}

func (h *history) entries() []Entry {
	n := h.items.Length()
	out := make([]Entry, n)
	for i := range n {
		out[i] = h.items.Get(i)
	}
	return out
}

func (h *history) clear() {
	for h.items.Length() > 0 {
		h.items.Remove()
	}
}

func (h *history) len() int {
	return h.items.Length()
}
