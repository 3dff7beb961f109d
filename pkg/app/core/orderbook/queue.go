package orderbook

import (
	"container/heap"
	"sort"
)

// sideQueue is the priority queue of resting orders for one side of a book.
// The comparator is fixed at construction: best price first (sign depends on
// the side), then arrival sequence ascending for equal prices. Reinserting a
// popped order therefore restores its exact price-time rank.
type sideQueue struct {
	orders []*Order
	rule   sideRule
}

func newSideQueue(side Side) *sideQueue {
	return &sideQueue{rule: side.rule()}
}

func (q *sideQueue) before(a, b *Order) bool {
	if !a.Price.Equal(b.Price) {
		return q.rule.outranks(a.Price, b.Price)
	}
	return a.Seq < b.Seq
}

// heap.Interface. Use the push/pop/peek helpers below to manipulate the queue.
func (q *sideQueue) Len() int           { return len(q.orders) }
func (q *sideQueue) Less(i, j int) bool { return q.before(q.orders[i], q.orders[j]) }
func (q *sideQueue) Swap(i, j int)      { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *sideQueue) Push(x any) {
	q.orders = append(q.orders, x.(*Order))
}

func (q *sideQueue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}

func (q *sideQueue) push(o *Order) { heap.Push(q, o) }

func (q *sideQueue) pop() *Order { return heap.Pop(q).(*Order) }

// peek returns the best resting order without removing it, nil when empty.
func (q *sideQueue) peek() *Order {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}

// sorted returns a copy of the queue in priority order. Used for snapshots
// and diagnostics; the queue itself is untouched.
func (q *sideQueue) sorted() []*Order {
	out := make([]*Order, len(q.orders))
	copy(out, q.orders)
	sort.Slice(out, func(i, j int) bool { return q.before(out[i], out[j]) })
	return out
}
