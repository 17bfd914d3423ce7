package reclaim

import (
	"sync"
	"testing"
)

func TestStackEmptyPop(t *testing.T) {
	s := NewStack[int]()
	h := s.Handle()

	if !s.Empty() {
		t.Fatalf("new stack should be empty")
	}
	if _, ok := s.Pop(h); ok {
		t.Fatalf("pop on empty stack should return ok=false")
	}
}

func TestStackLIFOOrder(t *testing.T) {
	s := NewStack[int]()
	h := s.Handle()

	for _, v := range []int{1001, 1002, 1003, 1004} {
		s.Push(h, v)
	}

	want := []int{1004, 1003, 1002, 1001}
	for _, w := range want {
		got, ok := s.Pop(h)
		if !ok {
			t.Fatalf("expected a value, got none")
		}
		if got != w {
			t.Fatalf("LIFO violation: want %d, got %d", w, got)
		}
	}
	if !s.Empty() {
		t.Fatalf("stack should be drained")
	}
}

func TestStackConcurrentSymmetry(t *testing.T) {
	const workers = 10
	const perWorker = 500
	const payload = 1008

	s := NewStack[int]()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			h := s.Handle()
			for j := 0; j < perWorker; j++ {
				s.Push(h, payload)
			}
		}()
	}
	wg.Wait()

	var popped int
	var mu sync.Mutex
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			h := s.Handle()
			local := 0
			for {
				v, ok := s.Pop(h)
				if !ok {
					break
				}
				if v != payload {
					t.Errorf("unexpected payload %d", v)
				}
				local++
			}
			mu.Lock()
			popped += local
			mu.Unlock()
		}()
	}
	wg.Wait()

	if popped != workers*perWorker {
		t.Fatalf("expected %d total pops, got %d", workers*perWorker, popped)
	}
	if !s.Empty() {
		t.Fatalf("stack should be empty after draining all pushes")
	}
}
