package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timestamps are stored as ISO-8601 strings, the format the mobile
// clients already write and sort on.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func NowTimestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}

type ServiceType string

const (
	ServiceTypeApartment ServiceType = "apartment"
	ServiceTypeLaundry   ServiceType = "laundry"
	ServiceTypeAuto      ServiceType = "auto"
)

func (st ServiceType) Valid() bool {
	switch st {
	case ServiceTypeApartment, ServiceTypeLaundry, ServiceTypeAuto:
		return true
	}
	return false
}

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusDeclined  ReservationStatus = "declined"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AdminReservation is the staff-visible copy of a booking. Service
// fields are a snapshot taken at booking time and are not kept in sync
// with later edits of the booked item.
type AdminReservation struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	UserName        string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserEmail       string             `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	ServiceType     ServiceType        `bson:"serviceType" json:"serviceType"`
	ServiceID       string             `bson:"serviceId" json:"serviceId"`
	ServiceTitle    string             `bson:"serviceTitle,omitempty" json:"serviceTitle,omitempty"`
	ServicePrice    string             `bson:"servicePrice,omitempty" json:"servicePrice,omitempty"`
	ServiceLocation string             `bson:"serviceLocation,omitempty" json:"serviceLocation,omitempty"`
	ServiceImage    string             `bson:"serviceImage,omitempty" json:"serviceImage,omitempty"`
	Status          ReservationStatus  `bson:"status" json:"status"`
	ReservationDate string             `bson:"reservationDate,omitempty" json:"reservationDate,omitempty"`
	CreatedAt       string             `bson:"createdAt" json:"createdAt"`
	UpdatedAt       string             `bson:"updatedAt" json:"updatedAt"`
}

// UserReservation is the copy stored under the owning user's namespace.
// User identity fields are omitted, the namespace already scopes them.
type UserReservation struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	UserID          string             `bson:"userId" json:"-"`
	ServiceType     ServiceType        `bson:"serviceType" json:"serviceType"`
	ServiceID       string             `bson:"serviceId" json:"serviceId"`
	ServiceTitle    string             `bson:"serviceTitle,omitempty" json:"serviceTitle,omitempty"`
	ServicePrice    string             `bson:"servicePrice,omitempty" json:"servicePrice,omitempty"`
	ServiceLocation string             `bson:"serviceLocation,omitempty" json:"serviceLocation,omitempty"`
	ServiceImage    string             `bson:"serviceImage,omitempty" json:"serviceImage,omitempty"`
	Status          ReservationStatus  `bson:"status" json:"status"`
	ReservationDate string             `bson:"reservationDate,omitempty" json:"reservationDate,omitempty"`
	CreatedAt       string             `bson:"createdAt" json:"createdAt"`
	UpdatedAt       string             `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the payload a client sends to book a service. Both
// reservation copies are derived from it.
type BookingRequest struct {
	UserID          string      `json:"userId" validate:"required"`
	UserName        string      `json:"userName" validate:"required"`
	UserEmail       string      `json:"userEmail" validate:"required,email"`
	ServiceType     ServiceType `json:"serviceType" validate:"required"`
	ServiceID       string      `json:"serviceId" validate:"required"`
	ServiceTitle    string      `json:"serviceTitle" validate:"required"`
	ServicePrice    string      `json:"servicePrice"`
	ServiceLocation string      `json:"serviceLocation"`
	ServiceImage    string      `json:"serviceImage"`
	ReservationDate string      `json:"reservationDate" validate:"required"`
}

func (br *BookingRequest) Validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("serviceType", serviceTypeField)
	if err != nil {
		return err
	}

	return validate.Struct(br)
}

func serviceTypeField(fl validator.FieldLevel) bool {
	return ServiceType(fl.Field().String()).Valid()
}

type StatusUpdateRequest struct {
	Status ReservationStatus `json:"status"`
}

func (br *BookingRequest) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(br)
}

func (o *StatusUpdateRequest) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *AdminReservation) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

type AdminReservations []*AdminReservation
type UserReservations []*UserReservation

func (o AdminReservations) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o UserReservations) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
