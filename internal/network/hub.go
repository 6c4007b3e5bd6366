package network

import (
	"sync"

	"github.com/google/uuid"

	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// Broadcaster занимается только рассылкой результатов действий
// подписчикам. Мир один на всех, поэтому каждое примененное действие
// видят все подключенные клиенты (наблюдатели включительно).
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID подключения -> Личный канал
	subscribers map[string]chan api.ActionResult
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ActionResult),
	}
}

// Register создает личный канал для нового подключения и возвращает
// его идентификатор.
func (b *Broadcaster) Register() (string, chan api.ActionResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan api.ActionResult, 16)
	b.subscribers[id] = ch
	return id, ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному подключению (Unicast)
func (b *Broadcaster) SendTo(id string, msg api.ActionResult) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		select {
		case ch <- msg:
		default:
			// Переполненный канал медленного клиента не блокирует игру.
		}
	}
}

// Broadcast отправляет всем (игроку и зрителям)
func (b *Broadcaster) Broadcast(msg api.ActionResult) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
