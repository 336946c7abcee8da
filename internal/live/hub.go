// Package live pushes full snapshots to subscribers whenever a topic changes.
package live

import "sync"

const TopicTasks = "tasks"

// CommentsTopic is the topic of a task's comment thread.
func CommentsTopic(taskID string) string {
	return "tasks/" + taskID + "/comments"
}

// Hub fans change signals out to the subscribers of a topic.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*Subscription]struct{})}
}

// Subscription receives a signal on C after every change of its topic.
// Signals coalesce: a subscriber that is behind sees a single pending signal.
type Subscription struct {
	C <-chan struct{}

	hub   *Hub
	topic string
	ch    chan struct{}
	once  sync.Once
}

// Subscribe registers a new subscription on topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan struct{}, 1)
	sub := &Subscription{C: ch, hub: h, topic: topic, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish signals every subscriber of topic without blocking.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Unsubscribe removes the subscription from its hub. It is idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		subs := s.hub.topics[s.topic]
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.hub.topics, s.topic)
		}
	})
}
