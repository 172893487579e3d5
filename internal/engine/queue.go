package engine

import "container/heap"

// readyQueue is a heap of ready processes ordered by a policy comparator.
type readyQueue struct {
	items []*proc
	less  func(a, b *proc) bool
}

func newReadyQueue(less func(a, b *proc) bool) *readyQueue {
	rq := &readyQueue{less: less}
	heap.Init(rq)
	return rq
}

func (q *readyQueue) Len() int { return len(q.items) }

func (q *readyQueue) Less(i, j int) bool {
	return q.less(q.items[i], q.items[j])
}

func (q *readyQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

// Push adds a process. Called by heap.Push; use push instead.
func (q *readyQueue) Push(x any) {
	q.items = append(q.items, x.(*proc))
}

// Pop removes the last element. Called by heap.Pop; use pop instead.
func (q *readyQueue) Pop() any {
	old := q.items
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return p
}

func (q *readyQueue) push(p *proc) {
	heap.Push(q, p)
}

// pop removes and returns the process that sorts first.
func (q *readyQueue) pop() *proc {
	return heap.Pop(q).(*proc)
}
