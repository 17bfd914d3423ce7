package reclaim

import "sync/atomic"

// stackCapacity bounds the ring buffer backing each epoch's retirement
// bag. Matches the original implementation's fixed stack capacity.
const stackCapacity = 33

// localLimit is how many retired nodes a Local accumulates locally
// before migrating its bag into the shared global bag for its pinned
// epoch.
const localLimit = 8

// bag is an unordered collection of retired node pointers awaiting
// release. empty swaps the slice out and resets it in one step so a
// bag can be migrated without a lock.
type bag[T any] struct {
	data []*T
}

func (b *bag[T]) push(v *T) {
	b.data = append(b.data, v)
}

func (b *bag[T]) empty() []*T {
	out := b.data
	b.data = nil
	return out
}

// global holds the three-epoch rotation of retirement bags shared by
// every worker's Local handle, plus a pin-count per epoch used to
// detect when it is safe to reclaim the oldest bag and advance.
type global[T any] struct {
	epoch  atomic.Uint64
	bags   [3]*ringBuffer[bag[T]]
	status [3]atomic.Int64
	lock   atomic.Bool
}

func newGlobal[T any]() *global[T] {
	g := &global[T]{}
	for i := range g.bags {
		g.bags[i] = newRingBuffer[bag[T]](stackCapacity)
	}
	return g
}

// tryAdvance attempts a best-effort epoch bump: if nobody is pinned in
// the epoch just before the current one, that epoch's bag is drained
// and released (its pointers dropped so the Go garbage collector is
// free to reclaim them), then the epoch counter is advanced by one.
// Contention on the advance itself is fine to lose; correctness only
// requires that an advance that does happen is safe.
func (g *global[T]) tryAdvance() {
	if !g.lock.CompareAndSwap(false, true) {
		return
	}
	defer g.lock.Store(false)

	epoch := g.epoch.Load()
	previous := (epoch + 2) % 3
	if g.status[previous].Load() != 0 {
		return
	}

	for _, retired := range g.bags[previous].drain() {
		release(retired)
	}
	g.epoch.CompareAndSwap(epoch, epoch+1)
}

// release drops every pointer held by a retired bag, clearing the
// garbage collector's last reason to keep the underlying nodes alive.
// This is the Go analogue of the original implementation's manual
// free(): there is no explicit deallocation call, only the removal of
// the last live reference, at the same point in the protocol the
// original frees memory.
func release[T any](b *bag[T]) {
	for i := range b.data {
		b.data[i] = nil
	}
}

// local is a per-worker handle into the epoch reclaimer: it tracks the
// epoch the worker is currently pinned to (if any), a nesting depth so
// pin/unpin can be called recursively, and a bag of nodes retired by
// this worker that have not yet migrated into the shared global bag.
type local[T any] struct {
	g        *global[T]
	pinDepth int
	epoch    uint64
	buffer   bag[T]
}

func newLocal[T any](g *global[T]) *local[T] {
	return &local[T]{g: g}
}

// pin marks the caller as actively traversing the structure this
// reclaimer protects. While pinned, no bag for the current epoch is
// eligible for reclamation. Pins nest: only the outermost pin/unpin
// pair changes the pinned epoch's status count. The outermost pin
// also makes a best-effort attempt to advance the global epoch before
// reading it, so a worker that keeps pinning and unpinning is what
// drives the epoch forward.
func (l *local[T]) pin() {
	if l.pinDepth == 0 {
		l.g.tryAdvance()
		l.epoch = l.g.epoch.Load()
		l.g.status[l.epoch%3].Add(1)
	}
	l.pinDepth++
}

// unpin releases one level of pinning. When the outermost pin is
// released it clears this worker's hold on its pinned epoch.
func (l *local[T]) unpin() {
	l.pinDepth--
	if l.pinDepth == 0 {
		l.g.status[l.epoch%3].Add(-1)
	}
}

// retire hands ptr to the reclaimer. The caller must still hold a pin
// covering the epoch in which ptr was unlinked. Once the caller's
// local bag reaches localLimit it migrates to the global bag so other
// workers' epoch advances can eventually release it.
func (l *local[T]) retire(ptr *T) {
	l.buffer.push(ptr)
	if len(l.buffer.data) >= localLimit {
		l.migrate()
	}
}

// migrate moves the local worker's accumulated retirements into the
// global bag for the epoch it is currently pinned to.
func (l *local[T]) migrate() {
	if len(l.buffer.data) == 0 {
		return
	}
	moved := bag[T]{data: l.buffer.empty()}
	l.g.bags[l.epoch%3].push(&moved)
}
