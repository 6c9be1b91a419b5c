package pubsub

import "sync"

// Topic é um broadcaster em processo que guarda o último valor publicado.
// Novos assinantes recebem o valor atual logo ao se inscrever.
type Topic[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	last   T
	has    bool
	buffer int
}

func NewTopic[T any](buffer int) *Topic[T] {
	if buffer <= 0 {
		buffer = 1
	}
	return &Topic[T]{subs: make(map[int]chan T), buffer: buffer}
}

// Subscribe retorna o canal de atualizações e a função de cancelamento
func (t *Topic[T]) Subscribe() (<-chan T, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan T, t.buffer)
	if t.has {
		ch <- t.last
	}
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(ch)
		})
	}
}

// Publish nunca bloqueia: assinante lento perde o valor mais antigo do buffer
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = v
	t.has = true
	for _, ch := range t.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Last retorna o último valor publicado
func (t *Topic[T]) Last() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.has
}
