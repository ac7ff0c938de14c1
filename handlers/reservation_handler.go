package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/cache"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/errors"
	application "github.com/Jayveebrianibale/GereuOnlineHub-sub000/service"
)

type ReservationHandler struct {
	service *application.ReservationService
	feed    *cache.ReservationFeed
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewReservationHandler(service *application.ReservationService, feed *cache.ReservationFeed, tracer trace.Tracer, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		feed:    feed,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ReservationHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.Use(RequestIDMiddleware)

	router.HandleFunc("/reservations", handler.CreateReservation).Methods("POST")
	router.HandleFunc("/reservations", handler.GetAllReservations).Methods("GET")
	router.HandleFunc("/reservations/events", handler.StreamEvents).Methods("GET")
	router.HandleFunc("/reservations/{id}", handler.GetReservationByID).Methods("GET")
	router.HandleFunc("/reservations/{id}/status", handler.UpdateReservationStatus).Methods("PATCH")
	router.HandleFunc("/users/{userId}/reservations", handler.GetUserReservations).Methods("GET")
	router.HandleFunc("/users/{userId}/reservations/{id}/cancel", handler.CancelReservation).Methods("POST")
	router.HandleFunc("/users/{userId}/reservations/{id}", handler.RemoveUserReservation).Methods("DELETE")
}

func (handler *ReservationHandler) CreateReservation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.CreateReservation")
	defer span.End()

	var request domain.BookingRequest
	if err := request.FromJSON(req.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Error("Error decoding booking request: ", err)
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := request.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if !request.ServiceType.Valid() {
		span.SetStatus(codes.Error, "Invalid service type")
		http.Error(writer, "Invalid service type", http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreateReservation(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	if err := created.ToJSON(writer); err != nil {
		handler.logger.Error("Unable to convert to json: ", err)
	}
}

func (handler *ReservationHandler) GetAllReservations(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.GetAllReservations")
	defer span.End()

	reservations, err := handler.service.GetAllReservations(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Error("Error getting reservations: ", err)
		http.Error(writer, "Error getting reservations", http.StatusInternalServerError)
		return
	}

	if err := domain.AdminReservations(reservations).ToJSON(writer); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unable to convert to json", http.StatusInternalServerError)
		return
	}
}

func (handler *ReservationHandler) GetReservationByID(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.GetReservationByID")
	defer span.End()

	vars := mux.Vars(req)
	id := vars["id"]

	reservation, err := handler.service.GetReservationByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.ReservationNotFound, http.StatusNotFound)
		return
	}

	if err := reservation.ToJSON(writer); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unable to convert to json", http.StatusInternalServerError)
		return
	}
}

// UpdateReservationStatus is the staff accept/decline/complete action.
// The response reflects only the admin-side write, mirroring and
// notification run best effort behind it.
func (handler *ReservationHandler) UpdateReservationStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.UpdateReservationStatus")
	defer span.End()

	vars := mux.Vars(req)
	id := vars["id"]

	var request domain.StatusUpdateRequest
	if err := request.FromJSON(req.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if !request.Status.Valid() {
		span.SetStatus(codes.Error, errors.InvalidStatusError)
		http.Error(writer, errors.InvalidStatusError, http.StatusBadRequest)
		return
	}

	err := handler.service.SyncStatusFromAdminSide(ctx, id, request.Status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.ReservationNotFound {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *ReservationHandler) GetUserReservations(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.GetUserReservations")
	defer span.End()

	vars := mux.Vars(req)
	userID := vars["userId"]

	reservations, err := handler.service.GetUserReservations(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Error("Error getting user reservations: ", err)
		http.Error(writer, "Error getting reservations", http.StatusInternalServerError)
		return
	}

	if err := domain.UserReservations(reservations).ToJSON(writer); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unable to convert to json", http.StatusInternalServerError)
		return
	}
}

func (handler *ReservationHandler) CancelReservation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.CancelReservation")
	defer span.End()

	vars := mux.Vars(req)
	userID := vars["userId"]
	id := vars["id"]

	err := handler.service.CancelReservation(ctx, userID, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.ReservationNotFound {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *ReservationHandler) RemoveUserReservation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReservationHandler.RemoveUserReservation")
	defer span.End()

	vars := mux.Vars(req)
	userID := vars["userId"]
	id := vars["id"]

	err := handler.service.RemoveUserReservation(ctx, userID, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.ReservationNotFound {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}

// StreamEvents holds the connection open and forwards reservation
// events as server-sent events until the client goes away.
func (handler *ReservationHandler) StreamEvents(writer http.ResponseWriter, req *http.Request) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		http.Error(writer, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/event-stream")
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Header().Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := handler.feed.Subscribe()
	defer handler.feed.Unsubscribe(sub)

	for {
		select {
		case <-req.Context().Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				handler.logger.Error("Error marshaling reservation event: ", err)
				continue
			}
			fmt.Fprintf(writer, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(rw, h)
	})
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		requestID := h.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rw.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(rw, h)
	})
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
