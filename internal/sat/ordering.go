package sat

import (
	"log"

	"github.com/rhartert/yagh"
)

// VarOrder selects the next decision variable. Unassigned variables are kept
// in a min-heap keyed by their ID so that decisions always pick the smallest
// unassigned variable.
type VarOrder struct {
	size   int
	solver *Solver
	heap   *yagh.IntMap[int]
}

func NewVarOrder(s *Solver, nVar int) *VarOrder {
	vo := &VarOrder{
		size:   nVar,
		solver: s,
		heap:   yagh.New[int](nVar),
	}

	for i := 0; i < nVar; i++ {
		vo.Undo(i)
	}
	return vo
}

// Undo makes variable varID selectable again. It is called when backtracking
// unassigns the variable.
func (vo *VarOrder) Undo(varID int) {
	vo.heap.Put(varID, varID)
}

// Select returns the literal to branch on next. It must not be called if all
// variables are assigned.
func (vo *VarOrder) Select() Literal {
	for {
		next, ok := vo.heap.Pop()
		if !ok {
			log.Fatalln("empty heap")
		}
		if vo.solver.VarValue(next.Elem) != Unknown {
			continue // already assigned
		}
		return vo.solver.NegativeLiteral(next.Elem)
	}
}
