package realtime

import (
	"context"
	"sync"
)

// MemoryPublisher buffers updates in memory. Tests use it to assert on the
// event stream without a broker.
type MemoryPublisher struct {
	mu      sync.Mutex
	updates []WorkoutUpdate
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(ctx context.Context, update WorkoutUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Updates returns a copy of everything published so far.
func (p *MemoryPublisher) Updates() []WorkoutUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]WorkoutUpdate, len(p.updates))
	copy(out, p.updates)
	return out
}
