package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	time int
	tag  string
}

func key(i item) []int {
	return []int{i.time}
}

func TestSortIsStable(t *testing.T) {
	xs := []item{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}}
	Sort(xs, key)

	assert := assert.New(t)
	assert.Equal([]item{{1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}}, xs)
}

func TestSortIsIdempotent(t *testing.T) {
	xs := []item{{3, "a"}, {1, "b"}, {3, "c"}, {2, "d"}}
	Sort(xs, key)
	once := append([]item(nil), xs...)
	Sort(xs, key)

	assert.Equal(t, once, xs)
}

func TestRemoveDuplicateKeepsFirst(t *testing.T) {
	xs := []int{1, 1, 2, 2, 2, 3}
	out := RemoveDuplicate(xs, func(a, b int) bool { return a == b })

	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestRemoveDuplicateIsIdempotent(t *testing.T) {
	xs := []int{5, 5, 6, 7, 7}
	once := RemoveDuplicate(xs, func(a, b int) bool { return a == b })
	twice := RemoveDuplicate(append([]int(nil), once...), func(a, b int) bool { return a == b })

	assert.Equal(t, once, twice)
}

func TestRemoveInvalidPreservesOrder(t *testing.T) {
	xs := []int{4, -1, 7, -3, 2}
	out := RemoveInvalid(xs, func(v int) bool { return v >= 0 })

	assert.Equal(t, []int{4, 7, 2}, out)
}

func TestLessComparesLexicographically(t *testing.T) {
	assert := assert.New(t)
	assert.True(Less([]int{1, 2}, []int{1, 3}))
	assert.True(Less([]int{1, 2}, []int{2, 0}))
	assert.False(Less([]int{1, 2}, []int{1, 2}))
	assert.True(Less([]int{1}, []int{1, 0}))
}
