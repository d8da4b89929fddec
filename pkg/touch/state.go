package touch

// State of a touch pipeline
type State uint8

// States, in the order a successful run goes through them
const (
	Idle State = iota
	Querying
	Touching
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case Touching:
		return "touching"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports a state transition.
//
// When touching, Index is the 0-based position of the node being touched and NodeID its id.
type Event struct {
	State  State
	Index  int
	Total  int
	NodeID string
	Err    error
}
