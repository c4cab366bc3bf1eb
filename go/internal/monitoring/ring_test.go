package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingDropsOldest(t *testing.T) {
	r := newRing[int](3)
	assert.Empty(t, r.all())

	r.push(1)
	r.push(2)
	assert.Equal(t, []int{1, 2}, r.all())

	r.push(3)
	r.push(4)
	r.push(5)
	assert.Equal(t, []int{3, 4, 5}, r.all())
	assert.Equal(t, []int{4, 5}, r.last(2))
	assert.Equal(t, []int{3, 4, 5}, r.last(10))
}
