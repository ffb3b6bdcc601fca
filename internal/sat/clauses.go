package sat

import (
	"strings"
)

// Clause is a disjunction of literals. Stored clauses always contain at least
// two literals; the literals at positions 0 and 1 are the clause's watched
// literals. The propagator permutes literal positions in place but never
// changes the clause's multiset of literals.
type Clause struct {
	learnt bool

	literals []Literal
}

// NewClause builds a clause from the given literals and registers it in the
// solver's watcher lists. Problem clauses (learnt = false) are normalized
// against the root-level assignment first: duplicated literals, literals that
// are already false, tautologies, and clauses that are already satisfied are
// all absorbed. The returned boolean is false if the clause makes the formula
// unsatisfiable (i.e. it is empty or its unit literal is already false).
//
// Clauses of size 0 and 1 are never stored: the empty clause is reported as a
// contradiction and unit clauses are enqueued on the trail directly.
func NewClause(s *Solver, literals []Literal, learnt bool) (*Clause, bool) {

	if !learnt {
		size := len(literals)
		seen := map[Literal]struct{}{}

		for i := size - 1; i >= 0; i-- {
			// If the opposite literal is in the clause, then the clause is
			// always true.
			if _, ok := seen[literals[i].Opposite()]; ok {
				return nil, true
			}

			// Remove the literal if it is already present.
			if _, ok := seen[literals[i]]; ok {
				size--
				literals[i], literals[size] = literals[size], literals[i]
			}

			seen[literals[i]] = struct{}{}

			switch s.LitValue(literals[i]) {
			case True:
				return nil, true // clause is always true
			case False:
				size--
				literals[i], literals[size] = literals[size], literals[i]
			}
		}

		literals = literals[:size]
	}

	switch len(literals) {
	case 0:
		// Empty clauses cannot be valid.
		return nil, false
	case 1:
		// Directly enqueue unit facts.
		return nil, s.enqueue(literals[0], nil)
	default:
		c := &Clause{}
		c.literals = literals
		c.learnt = learnt

		if learnt {
			// The first literal of a learnt clause is its asserting literal.
			// The second watch must be a literal from the highest remaining
			// decision level so that the clause stays watchable after the
			// backjump.
			maxLevel := -1
			wl := -1
			for i := 1; i < len(c.literals); i++ {
				if level := s.level[c.literals[i].VarID()]; level > maxLevel {
					maxLevel = level
					wl = i
				}
			}
			c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
		}

		s.Watch(c, c.literals[0].Opposite())
		s.Watch(c, c.literals[1].Opposite())

		return c, true
	}
}

// Size returns the number of literals in the clause.
func (c *Clause) Size() int {
	return len(c.literals)
}

// propagation is the outcome of waking up a clause after one of its watched
// literals became false.
type propagation int

const (
	// The clause still watches the same two literals. This covers both the
	// case where the clause is satisfied and the case where it became unit
	// and enqueued its remaining literal.
	watchKept propagation = iota

	// The clause found a replacement watch and moved to another watcher list.
	// The caller must remove it from the current list.
	watchMoved

	// All the clause's literals are false.
	watchConflict
)

// propagate updates clause c knowing that literal l was just assigned to
// true, i.e. that the watched literal !l became false.
func (c *Clause) propagate(s *Solver, l Literal) propagation {
	// Make sure the false literal is c.literals[1].
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0] = c.literals[1]
		c.literals[1] = opp
	}

	// If c.literals[0] is true, then the clause is already true.
	if s.LitValue(c.literals[0]) == True {
		return watchKept
	}

	// Look for a new literal to watch in place of c.literals[1].
	for i := 2; i < len(c.literals); i++ {
		if s.LitValue(c.literals[i]) != False {
			c.literals[1], c.literals[i] = c.literals[i], c.literals[1]
			s.Watch(c, c.literals[1].Opposite())
			return watchMoved
		}
	}

	// No replacement: the clause is either conflicting or unit on its first
	// literal.
	if s.LitValue(c.literals[0]) == False {
		return watchConflict
	}
	s.enqueue(c.literals[0], c)
	return watchKept
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
