package domain

import (
	"strings"
	"testing"
)

func TestBookingRequestValidate(t *testing.T) {
	valid := BookingRequest{
		UserID:          "u1",
		UserName:        "Test User",
		UserEmail:       "user@example.com",
		ServiceType:     ServiceTypeApartment,
		ServiceID:       "apt-7",
		ServiceTitle:    "Studio unit",
		ReservationDate: "2026-09-01T10:00:00.000Z",
	}

	tests := []struct {
		name    string
		mutate  func(r *BookingRequest)
		wantErr bool
	}{
		{
			name:   "valid request",
			mutate: func(r *BookingRequest) {},
		},
		{
			name:    "missing user id",
			mutate:  func(r *BookingRequest) { r.UserID = "" },
			wantErr: true,
		},
		{
			name:    "bad email",
			mutate:  func(r *BookingRequest) { r.UserEmail = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "missing service id",
			mutate:  func(r *BookingRequest) { r.ServiceID = "" },
			wantErr: true,
		},
		{
			name:    "missing reservation date",
			mutate:  func(r *BookingRequest) { r.ReservationDate = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid
			tt.mutate(&request)
			err := request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReservationStatusValid(t *testing.T) {
	for _, status := range []ReservationStatus{StatusPending, StatusConfirmed, StatusDeclined, StatusCompleted, StatusCancelled} {
		if !status.Valid() {
			t.Errorf("%s should be valid", status)
		}
	}
	for _, status := range []ReservationStatus{"", "approved", "PENDING", "done"} {
		if status.Valid() {
			t.Errorf("%s should be invalid", status)
		}
	}
}

func TestServiceTypeValid(t *testing.T) {
	for _, st := range []ServiceType{ServiceTypeApartment, ServiceTypeLaundry, ServiceTypeAuto} {
		if !st.Valid() {
			t.Errorf("%s should be valid", st)
		}
	}
	if ServiceType("hotel").Valid() {
		t.Error("hotel should be invalid")
	}
}

func TestBookingRequestFromJSON(t *testing.T) {
	payload := `{"userId":"u1","userName":"Test","userEmail":"t@example.com","serviceType":"laundry","serviceId":"l-1","serviceTitle":"Wash","reservationDate":"2026-09-01T10:00:00.000Z"}`

	var request BookingRequest
	if err := request.FromJSON(strings.NewReader(payload)); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if request.ServiceType != ServiceTypeLaundry {
		t.Errorf("serviceType = %v, want laundry", request.ServiceType)
	}
	if request.ServiceID != "l-1" {
		t.Errorf("serviceId = %v, want l-1", request.ServiceID)
	}
}

func TestNowTimestampLayout(t *testing.T) {
	ts := NowTimestamp()
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("timestamp %q is not UTC", ts)
	}
	if len(ts) != len("2026-01-02T15:04:05.000Z") {
		t.Errorf("timestamp %q does not match layout", ts)
	}
}
