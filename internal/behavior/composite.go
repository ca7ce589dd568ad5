package behavior

// Sequence ticks its children in order, resuming at the child that last
// reported running. It fails as soon as a child fails and succeeds once every
// child has succeeded.
type Sequence struct {
	name     string
	children []Node
	current  int
	status   Status
}

// NewSequence builds a sequence composite.
func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{name: name, children: children, status: StatusFresh}
}

// Add appends children to the sequence.
func (s *Sequence) Add(children ...Node) {
	s.children = append(s.children, children...)
}

// Name implements Node.
func (s *Sequence) Name() string {
	return s.name
}

// Tick implements Node.
func (s *Sequence) Tick(dt float64) Status {
	if s.status.Terminal() {
		return s.status
	}
	for s.current < len(s.children) {
		switch status := s.children[s.current].Tick(dt); status {
		case StatusSuccess:
			s.current++
		case StatusFailure:
			s.status = StatusFailure
			return s.status
		default:
			s.status = StatusRunning
			return s.status
		}
		// Only the first child advanced within this tick consumes dt.
		dt = 0
	}
	s.status = StatusSuccess
	return s.status
}

// Reset implements Node.
func (s *Sequence) Reset() {
	s.current = 0
	s.status = StatusFresh
	for _, child := range s.children {
		child.Reset()
	}
}

// Children exposes the child nodes for status reporting.
func (s *Sequence) Children() []Node {
	return s.children
}

// Status returns the composite's last ticked status.
func (s *Sequence) Status() Status {
	return s.status
}

// ParallelPolicy selects when a parallel composite succeeds.
type ParallelPolicy int

const (
	// SuccessOnOne finishes the parallel as soon as one child succeeds.
	SuccessOnOne ParallelPolicy = iota
	// SuccessOnAll waits for every child to succeed.
	SuccessOnAll
)

// Parallel ticks every unfinished child each tick. Any child failure fails
// the composite.
type Parallel struct {
	name     string
	policy   ParallelPolicy
	children []Node
	statuses []Status
	status   Status
}

// NewParallel builds a parallel composite with the given policy.
func NewParallel(name string, policy ParallelPolicy, children ...Node) *Parallel {
	p := &Parallel{name: name, policy: policy, children: children, status: StatusFresh}
	p.statuses = make([]Status, len(children))
	for i := range p.statuses {
		p.statuses[i] = StatusFresh
	}
	return p
}

// Add appends children to the parallel.
func (p *Parallel) Add(children ...Node) {
	p.children = append(p.children, children...)
	for len(p.statuses) < len(p.children) {
		p.statuses = append(p.statuses, StatusFresh)
	}
}

// Name implements Node.
func (p *Parallel) Name() string {
	return p.name
}

// Tick implements Node.
func (p *Parallel) Tick(dt float64) Status {
	if p.status.Terminal() {
		return p.status
	}
	// An empty parallel has nothing left to wait for under either policy.
	if len(p.children) == 0 {
		p.status = StatusSuccess
		return p.status
	}
	succeeded := 0
	for i, child := range p.children {
		if p.statuses[i].Terminal() {
			if p.statuses[i] == StatusSuccess {
				succeeded++
			}
			continue
		}
		status := child.Tick(dt)
		p.statuses[i] = status
		switch status {
		case StatusFailure:
			p.status = StatusFailure
			return p.status
		case StatusSuccess:
			succeeded++
			if p.policy == SuccessOnOne {
				p.status = StatusSuccess
				return p.status
			}
		}
	}
	if succeeded == len(p.children) {
		p.status = StatusSuccess
		return p.status
	}
	p.status = StatusRunning
	return p.status
}

// Reset implements Node.
func (p *Parallel) Reset() {
	p.status = StatusFresh
	for i, child := range p.children {
		child.Reset()
		p.statuses[i] = StatusFresh
	}
}

// Children exposes the child nodes for status reporting.
func (p *Parallel) Children() []Node {
	return p.children
}

// Status returns the composite's last ticked status.
func (p *Parallel) Status() Status {
	return p.status
}
