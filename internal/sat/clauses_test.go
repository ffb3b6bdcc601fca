package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClause_AttachesBinaryClause(t *testing.T) {
	s := NewDefaultSolver()
	s.AddVariable()
	s.AddVariable()

	c, ok := NewClause(s, []Literal{pos(0), pos(1)}, false)

	require.True(t, ok)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []*Clause{c}, s.watchers[neg(0)])
	assert.Equal(t, []*Clause{c}, s.watchers[neg(1)])
}

func TestNewClause_EmptyClauseIsContradiction(t *testing.T) {
	s := NewDefaultSolver()

	c, ok := NewClause(s, nil, false)

	assert.Nil(t, c)
	assert.False(t, ok)
}

func TestClause_String(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}

	c, _ := NewClause(s, []Literal{pos(0), neg(1), pos(2)}, false)

	assert.Equal(t, "Clause[0 !1 2]", c.String())
}
