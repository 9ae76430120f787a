package trade

// TimelineState is the rendering state of one timeline step
type TimelineState string

const (
	TimelineStateDone      TimelineState = "completed"
	TimelineStateCurrent   TimelineState = "current"
	TimelineStatePending   TimelineState = "pending"
	TimelineStateCancelled TimelineState = "cancelled"
)

// TimelineStep is one entry of the customer progress timeline
type TimelineStep struct {
	Status OrderStatus   `json:"status"`
	Label  string        `json:"label"`
	State  TimelineState `json:"state"`
}

// Timeline maps the order onto the fixed five-step forward sequence.
// A cancelled order always yields a single cancellation step, whatever
// state it was in before.
func (o *Order) Timeline() []TimelineStep {
	if o.Status == OrderStatusCancelled {
		return []TimelineStep{{
			Status: OrderStatusCancelled,
			Label:  OrderStatusCancelled.Label(),
			State:  TimelineStateCancelled,
		}}
	}

	sequence := []OrderStatus{
		OrderStatusReceived,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		o.DispatchStatus(),
		OrderStatusCompleted,
	}

	current := o.Status.Ordinal()
	steps := make([]TimelineStep, len(sequence))
	for i, status := range sequence {
		state := TimelineStatePending
		switch {
		case i < current, o.Status == OrderStatusCompleted:
			state = TimelineStateDone
		case i == current:
			state = TimelineStateCurrent
		}
		steps[i] = TimelineStep{Status: status, Label: status.Label(), State: state}
	}
	return steps
}
