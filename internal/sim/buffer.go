package sim

import (
	"sync"

	"github.com/san-kum/watersim/internal/physics"
)

// Stepper advances a particle set by one tick within the given bounds.
type Stepper interface {
	Step(ps physics.Set, b physics.Bounds)
}

// Buffer double-buffers a particle set so renderers never see a tick in
// progress. Advance steps the back set and swaps it in; Read hands the front
// set to a callback under a read lock.
type Buffer struct {
	write sync.Mutex

	mu    sync.RWMutex
	front physics.Set
	back  physics.Set
	tick  int
}

func NewBuffer(initial physics.Set) *Buffer {
	b := &Buffer{}
	b.Reset(initial)
	return b
}

// Reset replaces the current set with a copy of s and rewinds the tick counter.
func (b *Buffer) Reset(s physics.Set) {
	b.write.Lock()
	defer b.write.Unlock()

	b.mu.Lock()
	b.front = s.Clone()
	b.back = make(physics.Set, len(s))
	b.tick = 0
	b.mu.Unlock()
}

// Advance runs one tick and returns its number, starting at 1.
func (b *Buffer) Advance(st Stepper, bounds physics.Bounds) int {
	b.write.Lock()
	defer b.write.Unlock()

	// front is only replaced under write, so copying it here races with no one.
	copy(b.back, b.front)
	st.Step(b.back, bounds)

	b.mu.Lock()
	b.front, b.back = b.back, b.front
	b.tick++
	tick := b.tick
	b.mu.Unlock()
	return tick
}

// Read calls fn with the latest completed tick. fn must not retain v.
func (b *Buffer) Read(fn func(v physics.View, tick int)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(physics.ViewOf(b.front), b.tick)
}

func (b *Buffer) inspect(fn func(s physics.Set, tick int)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.front, b.tick)
}

func (b *Buffer) Snapshot() physics.Set {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.front.Clone()
}

func (b *Buffer) Tick() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tick
}
