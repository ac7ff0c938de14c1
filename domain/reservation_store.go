package domain

import "context"

// AdminReservationStore holds the flat, staff-visible reservation list.
type AdminReservationStore interface {
	Insert(ctx context.Context, reservation *AdminReservation) (*AdminReservation, error)
	GetByID(ctx context.Context, id string) (*AdminReservation, error)
	GetAll(ctx context.Context) ([]*AdminReservation, error)
	UpdateStatus(ctx context.Context, id string, status ReservationStatus, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

// UserReservationStore holds each user's own copies, scoped by user id.
type UserReservationStore interface {
	Insert(ctx context.Context, reservation *UserReservation) (*UserReservation, error)
	GetByID(ctx context.Context, userID string, id string) (*UserReservation, error)
	GetAllByUser(ctx context.Context, userID string) ([]*UserReservation, error)
	UpdateStatus(ctx context.Context, userID string, id string, status ReservationStatus, updatedAt string) error
	Delete(ctx context.Context, userID string, id string) error
}

// ReservationCache is a read cache for per-user reservation lists.
type ReservationCache interface {
	PostUserReservations(ctx context.Context, userID string, reservations []*UserReservation) error
	GetUserReservations(ctx context.Context, userID string) ([]*UserReservation, error)
	InvalidateUser(ctx context.Context, userID string) error
}
