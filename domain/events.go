package domain

type EventKind string

const (
	EventReservationCreated EventKind = "reservationCreated"
	EventStatusChanged      EventKind = "statusChanged"
	EventReservationRemoved EventKind = "reservationRemoved"
)

// ReservationEvent is published after every successful store write so
// that screens holding a live subscription can update without polling.
type ReservationEvent struct {
	Kind   EventKind         `json:"kind"`
	UserID string            `json:"userId"`
	Status ReservationStatus `json:"status,omitempty"`
	Admin  *AdminReservation `json:"admin,omitempty"`
	User   *UserReservation  `json:"user,omitempty"`
}

// EventSink receives reservation events. Publishing must never block
// or fail the write that produced the event.
type EventSink interface {
	Publish(event ReservationEvent)
}
