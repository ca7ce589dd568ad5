package behavior

// Status is the result of ticking a node.
type Status string

const (
	// StatusFresh marks a node that has not been ticked yet.
	StatusFresh   Status = "fresh"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Terminal reports whether the status ends the node's execution.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// Node is a behavior tree node. Tick advances the node by dt seconds of
// simulation time and returns its status; once a terminal status is returned
// the node keeps returning it until Reset.
type Node interface {
	Name() string
	Tick(dt float64) Status
	Reset()
}

// leaf provides the terminal-status latch shared by the atomic nodes.
type leaf struct {
	name   string
	status Status
}

func newLeaf(name string) leaf {
	return leaf{name: name, status: StatusFresh}
}

// Name implements Node.
func (l *leaf) Name() string {
	return l.name
}

// Status returns the node's last ticked status.
func (l *leaf) Status() Status {
	return l.status
}

// Reset implements Node.
func (l *leaf) Reset() {
	l.status = StatusFresh
}

func (l *leaf) done() bool {
	return l.status.Terminal()
}

func (l *leaf) settle(status Status) Status {
	l.status = status
	return status
}
