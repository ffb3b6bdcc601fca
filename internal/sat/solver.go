package sat

import (
	"fmt"
	"time"
)

type Solver struct {
	// Clause database.
	constraints []*Clause
	learnts     []*Clause

	// Variable ordering.
	order *VarOrder

	// Watcher lists. watchers[l] contains the clauses to wake up when literal
	// l becomes true. Each stored clause is registered in the lists of the
	// opposites of its two watched literals.
	watchers [][]*Clause

	// Value assigned to each literal.
	assigns []LBool

	// Trail. The literals in trail are ordered by assignment time; trailLim
	// contains the position of each decision, so the current decision level
	// is len(trailLim). qhead separates the literals already processed by
	// propagation from the ones still pending.
	trail    []Literal
	trailLim []int
	qhead    int
	reason   []*Clause
	level    []int

	// Whether the problem has reached a top level conflict.
	unsat bool

	// Search statistics.
	TotalConflicts    int64
	TotalDecisions    int64
	TotalPropagations int64
	TotalIterations   int64
	learntSize        EMA
	startTime         time.Time

	// Stop conditions.
	hasStopCond bool
	maxConflict int64
	timeout     time.Duration

	// Models.
	Models [][]bool

	// Shared by operation that needs to put variables in a set and empty that
	// set efficiently.
	seenVar *ResetSet

	// Temporary slice used in analyze to accumulate literals before these are
	// used to create a new learnt clause. Having one shared buffer between all
	// calls reduces the overhead of having to grow each time analyze is called.
	tmpLearnts []Literal
}

type Options struct {
	MaxConflicts int64
	Timeout      time.Duration
}

var DefaultOptions = Options{
	MaxConflicts: -1,
	Timeout:      -1,
}

// NewDefaultSolver returns a solver configured with default options. This is
// equivalent to calling NewSolver with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func NewSolver(ops Options) *Solver {
	s := &Solver{
		maxConflict: -1,
		timeout:     -1,
		seenVar:     &ResetSet{},
		learntSize:  NewEMA(0.999),
	}

	if ops.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflict = ops.MaxConflicts
	}
	if ops.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = ops.Timeout
	}

	return s
}

func (s *Solver) shouldStop() bool {
	if !s.hasStopCond {
		return false
	}
	if s.maxConflict >= 0 && s.maxConflict <= s.TotalConflicts {
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		return true
	}

	return false
}

func (s *Solver) PositiveLiteral(varID int) Literal {
	return Literal(varID * 2)
}

func (s *Solver) NegativeLiteral(varID int) Literal {
	return s.PositiveLiteral(varID).Opposite()
}

func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

func (s *Solver) NumConstraints() int {
	return len(s.constraints)
}

func (s *Solver) NumLearnts() int {
	return len(s.learnts)
}

func (s *Solver) VarValue(x int) LBool {
	return s.assigns[s.PositiveLiteral(x)]
}

func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

func (s *Solver) AddVariable() int {
	index := s.NumVariables()
	s.watchers = append(s.watchers, nil)
	s.watchers = append(s.watchers, nil)
	s.reason = append(s.reason, nil)
	s.seenVar.Expand()

	// One for each literal.
	s.assigns = append(s.assigns, Unknown)
	s.assigns = append(s.assigns, Unknown)

	s.level = append(s.level, -1)
	return index
}

// Watch registers clause c to be awaken when Literal watch is assigned to true.
func (s *Solver) Watch(c *Clause, watch Literal) {
	s.watchers[watch] = append(s.watchers[watch], c)
}

// AddClause adds a clause over the given literals to the solver, growing the
// variable space to cover the largest variable the clause mentions. Adding
// the empty clause (or a unit clause whose literal is already false at the
// root) makes the formula unsatisfiable.
func (s *Solver) AddClause(clause []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("can only add clauses at the root level")
	}
	for _, l := range clause {
		if l < 0 {
			return fmt.Errorf("invalid literal %d", int(l))
		}
		for l.VarID() >= s.NumVariables() {
			s.AddVariable()
		}
	}

	c, ok := NewClause(s, clause, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
	}

	return nil
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// Solve searches for an assignment that satisfies all the clauses added so
// far. It returns True if such an assignment was found (and appends it to
// s.Models), False if the formula is unsatisfiable, and Unknown if a stop
// condition interrupted the search first.
func (s *Solver) Solve() LBool {
	s.order = NewVarOrder(s, s.NumVariables())
	s.startTime = time.Now()

	s.printSeparator()
	s.printSearchHeader()
	s.printSeparator()

	status := s.search()

	s.printSearchStats()
	s.printSeparator()

	s.cancelUntil(0)
	return status
}

// Propagate processes the pending trail literals in assignment order and
// returns the first conflicting clause found, or nil if propagation reached
// a fixed point.
func (s *Solver) Propagate() *Clause {
	for s.qhead < len(s.trail) {
		l := s.trail[s.qhead]
		s.qhead++
		s.TotalPropagations++

		ws := s.watchers[l]
		for i := 0; i < len(ws); {
			c := ws[i]
			switch c.propagate(s, l) {
			case watchKept:
				i++
			case watchMoved:
				// The clause moved to another list: swap-pop it from this one
				// and inspect the clause that took its slot.
				ws[i] = ws[len(ws)-1]
				ws = ws[:len(ws)-1]
			case watchConflict:
				s.watchers[l] = ws
				s.qhead = len(s.trail)
				return c
			}
		}
		s.watchers[l] = ws
	}

	return nil
}

func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch v := s.LitValue(l); v {
	case False:
		return false // conflicting assignment
	case True:
		return true // already assigned
	default:
		// New fact, store it.
		varID := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[varID] = s.decisionLevel()
		s.reason[varID] = from
		s.trail = append(s.trail, l)
		return true
	}
}

// analyze derives a learnt clause from conflicting clause confl using the
// first unique implication point scheme, and returns it together with the
// level to backjump to. The learnt clause's asserting literal is placed at
// position 0. The returned slice is reused by subsequent calls.
func (s *Solver) analyze(confl *Clause) ([]Literal, int) {
	// Number of literals assigned at the conflict level that remain to be
	// resolved away. The first UIP is reached when this drops to zero.
	counter := 0
	conflictLevel := s.decisionLevel()

	// The first slot is reserved for the asserting literal, set at the end of
	// this function.
	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, -1)

	s.seenVar.Clear()
	for _, q := range confl.literals {
		v := q.VarID()
		s.seenVar.Add(v)
		if s.level[v] == conflictLevel {
			counter++
		} else {
			s.tmpLearnts = append(s.tmpLearnts, q)
		}
	}

	// Walk the trail backward, replacing seen conflict-level literals by the
	// literals of their reason clause until a single one remains: the first
	// unique implication point.
	var uip Literal
	for i := len(s.trail) - 1; ; i-- {
		l := s.trail[i]
		v := l.VarID()
		if !s.seenVar.Contains(v) {
			continue
		}

		counter--
		if counter <= 0 {
			uip = l
			break
		}

		reason := s.reason[v] // l was propagated: reason.literals[0] == l
		for _, q := range reason.literals[1:] {
			w := q.VarID()
			if s.seenVar.Contains(w) {
				continue
			}
			s.seenVar.Add(w)
			if s.level[w] == conflictLevel {
				counter++
			} else {
				s.tmpLearnts = append(s.tmpLearnts, q)
			}
		}
	}
	s.tmpLearnts[0] = uip.Opposite()

	// Backjump to the highest level at which the learnt clause is unit.
	backtrackLevel := 0
	for _, q := range s.tmpLearnts[1:] {
		if level := s.level[q.VarID()]; level > backtrackLevel {
			backtrackLevel = level
		}
	}

	return s.tmpLearnts, backtrackLevel
}

// record installs the learnt clause and asserts its first literal.
func (s *Solver) record(learnt []Literal) {
	// analyze reuses its buffer across conflicts: the clause needs its own
	// copy of the literals.
	clause := append([]Literal(nil), learnt...)
	s.learntSize.Add(float64(len(clause)))

	c, _ := NewClause(s, clause, true)
	s.enqueue(clause[0], c)
	if c != nil {
		s.learnts = append(s.learnts, c)
	}
}

func (s *Solver) search() LBool {
	if s.unsat {
		return False
	}

	for {
		if s.TotalIterations%10000 == 0 {
			s.printSearchStats()
		}
		s.TotalIterations++

		if conflict := s.Propagate(); conflict != nil {
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learntClause, backtrackLevel := s.analyze(conflict)
			s.cancelUntil(backtrackLevel)
			s.record(learntClause)

			continue
		}

		// No Conflict
		// -----------

		if s.NumAssigns() == s.NumVariables() { // solution found
			s.saveModel()
			return True
		}

		if s.shouldStop() {
			return Unknown
		}

		s.TotalDecisions++
		s.assume(s.order.Select())
	}
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	if s.order != nil {
		s.order.Undo(v)
	}
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = nil
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, nil)
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil undoes all the assignments made above the given decision level.
// The propagation cursor is reset to the truncated trail length: the literals
// still on the trail have already been propagated.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
	s.qhead = len(s.trail)
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("not a model")
		}
		model[i] = lb == True
	}
	s.Models = append(s.Models, model)
}

// Model returns the model found by the last successful Solve, or nil if no
// model has been found so far.
func (s *Solver) Model() []bool {
	if len(s.Models) == 0 {
		return nil
	}
	return s.Models[len(s.Models)-1]
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c            time     iterations      conflicts      decisions    avg learnt")
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %14.1f\n",
		time.Since(s.startTime).Seconds(),
		s.TotalIterations,
		s.TotalConflicts,
		s.TotalDecisions,
		s.learntSize.Val())
}
