package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetSet_AddAndClear(t *testing.T) {
	rs := &ResetSet{}
	for i := 0; i < 4; i++ {
		rs.Expand()
	}

	rs.Clear()
	rs.Add(1)
	rs.Add(3)

	assert.False(t, rs.Contains(0))
	assert.True(t, rs.Contains(1))
	assert.False(t, rs.Contains(2))
	assert.True(t, rs.Contains(3))

	rs.Clear()
	for i := 0; i < 4; i++ {
		assert.False(t, rs.Contains(i))
	}
}

func TestResetSet_TimestampOverflow(t *testing.T) {
	rs := &ResetSet{}
	rs.Expand()
	rs.Add(0)

	// Clearing past the uint16 timestamp overflow must not resurrect old
	// elements.
	for i := 0; i < 1<<16; i++ {
		rs.Clear()
	}

	assert.False(t, rs.Contains(0))
}
