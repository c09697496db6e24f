package store

// Result is the outcome state of an asynchronous load. A channel moves
// Idle -> Pending -> Success/Failed and back to Idle only through an
// explicit reset.
type Result int

const (
	Idle Result = iota
	Pending
	Success
	Failed
)

func (r Result) String() string {
	switch r {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
