package trade

import (
	"time"

	"github.com/google/uuid"
)

// StatusLog is one recorded status change of an order
type StatusLog struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	FromStatus OrderStatus
	ToStatus   OrderStatus
	ActorID    uuid.UUID
	ActorRole  string
	Reason     string
	CreatedAt  time.Time
}

func newStatusLog(orderID uuid.UUID, from, to OrderStatus, actor Actor, reason string) StatusLog {
	return StatusLog{
		ID:         uuid.New(),
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
}
