package order

// Stage is one step of the fixed delivery timeline shown to the customer.
type Stage struct {
	Name string `json:"name"`
	// State is "complete", "current", or "pending".
	State string `json:"state"`
}

// Stage states.
const (
	StageComplete = "complete"
	StageCurrent  = "current"
	StagePending  = "pending"
)

// stageNames is the fixed five-step timeline. The "placed" stage corresponds
// to the pending status.
var stageNames = []string{"placed", "confirmed", "preparing", "out-for-delivery", "delivered"}

var statusStageIndex = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// Timeline projects an order status onto the fixed stage list: stages before
// the current one are complete, the current one is highlighted, later ones
// are pending. A cancelled order has no active stage; every stage reads
// pending. This is a display projection only; the authoritative state is
// the order's Status.
func Timeline(status Status) []Stage {
	current, ok := statusStageIndex[status]
	if !ok {
		current = -1
	}

	stages := make([]Stage, len(stageNames))
	for i, name := range stageNames {
		state := StagePending
		switch {
		case i < current:
			state = StageComplete
		case i == current:
			state = StageCurrent
		}
		stages[i] = Stage{Name: name, State: state}
	}
	return stages
}
