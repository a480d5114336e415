package order

import "github.com/go-faster/errors"

// Status is the order lifecycle state. It is a closed enumeration with an
// explicit transition table; handlers never branch on raw strings.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out-for-delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not permitted by
// the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownStatus is returned when a status string is not part of the
// enumeration.
var ErrUnknownStatus = errors.New("unknown order status")

var validNext = map[Status]map[Status]bool{
	StatusPending:        {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusOutForDelivery: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validNext[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}
