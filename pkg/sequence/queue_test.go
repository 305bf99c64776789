package sequence

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdersByLowestPriority(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("c", 3)
	pq.Enqueue("a", 1)
	pq.Enqueue("b", 2)

	var got []string
	for !pq.IsEmpty() {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	_, ok := pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueTiesAreFIFO(t *testing.T) {
	pq := NewPriorityQueue[int]()
	for i := 0; i < 5; i++ {
		pq.Enqueue(i, 1.5)
	}
	for i := 0; i < 5; i++ {
		v, _ := pq.Dequeue()
		assert.Equal(t, i, v)
	}
}

func TestPriorityQueueUpdate(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("a", 1)
	b := pq.Enqueue("b", 5)

	pq.Update(b, 0)
	v, ok := pq.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, _ = pq.Dequeue()
	// stale handle must not disturb the heap
	pq.Update(b, -1)
	v, _ = pq.Dequeue()
	assert.Equal(t, "a", v)
	assert.Equal(t, 0, pq.Len())
}

func TestIteratorHelpers(t *testing.T) {
	it := From([]int{5, 2, 8, 1, 9})

	even := it.Filter(func(v int) bool { return v%2 == 0 }).Collect()
	assert.Equal(t, []int{2, 8}, even)

	sorted := it.SortFunc(cmp.Compare[int]).Collect()
	assert.Equal(t, []int{1, 2, 5, 8, 9}, sorted)

	minV, ok := it.MinFunc(cmp.Compare[int])
	require.True(t, ok)
	assert.Equal(t, 1, minV)

	first, ok := From([]int{}).First()
	assert.False(t, ok)
	assert.Zero(t, first)

	doubled := Map(it, func(v int) int { return v * 2 }).Collect()
	assert.Equal(t, []int{10, 4, 16, 2, 18}, doubled)
	assert.Equal(t, 5, it.Count())
}
