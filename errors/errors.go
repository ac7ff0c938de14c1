package errors

const (
	ReservationNotFound       = "Reservation not found"
	FailedToUpdateReservation = "Failed to update reservation status"
	FailedToCancelReservation = "Failed to cancel reservation"
	FailedToCreateReservation = "Failed to create reservation"
	FailedToRemoveReservation = "Failed to remove reservation"
	InvalidStatusError        = "Invalid reservation status"
	InvalidRequestFormatError = "Invalid request format"
)
