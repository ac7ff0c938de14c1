package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/errors"
)

// ReservationService keeps the two denormalized reservation copies in
// step after a status change. It is stateless, both collections, the
// read cache and the notifier are injected.
//
// Only the primary write participates in the caller-visible contract.
// The mirror write and every notification are advisory, their failures
// are logged and swallowed, which can leave the two copies diverged
// until the next status change overwrites both.
type ReservationService struct {
	adminStore domain.AdminReservationStore
	userStore  domain.UserReservationStore
	cache      domain.ReservationCache
	notifier   domain.Notifier
	mailer     domain.Mailer
	sink       domain.EventSink
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewReservationService(
	adminStore domain.AdminReservationStore,
	userStore domain.UserReservationStore,
	cache domain.ReservationCache,
	notifier domain.Notifier,
	mailer domain.Mailer,
	sink domain.EventSink,
	tracer trace.Tracer,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		adminStore: adminStore,
		userStore:  userStore,
		cache:      cache,
		notifier:   notifier,
		mailer:     mailer,
		sink:       sink,
		tracer:     tracer,
		logger:     logger,
	}
}

// CreateReservation writes both denormalized copies of a new booking.
// Each copy carries the same snapshot of the booked item, the snapshot
// is not kept in sync with later edits of the item.
func (service *ReservationService) CreateReservation(ctx context.Context, request *domain.BookingRequest) (*domain.AdminReservation, error) {
	ctx, span := service.tracer.Start(ctx, "ReservationService.CreateReservation")
	defer span.End()

	now := domain.NowTimestamp()

	admin := &domain.AdminReservation{
		UserID:          request.UserID,
		UserName:        request.UserName,
		UserEmail:       request.UserEmail,
		ServiceType:     request.ServiceType,
		ServiceID:       request.ServiceID,
		ServiceTitle:    request.ServiceTitle,
		ServicePrice:    request.ServicePrice,
		ServiceLocation: request.ServiceLocation,
		ServiceImage:    request.ServiceImage,
		Status:          domain.StatusPending,
		ReservationDate: request.ReservationDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := service.adminStore.Insert(ctx, admin)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, stderrors.New(errors.FailedToCreateReservation)
	}

	user := &domain.UserReservation{
		UserID:          request.UserID,
		ServiceType:     request.ServiceType,
		ServiceID:       request.ServiceID,
		ServiceTitle:    request.ServiceTitle,
		ServicePrice:    request.ServicePrice,
		ServiceLocation: request.ServiceLocation,
		ServiceImage:    request.ServiceImage,
		Status:          domain.StatusPending,
		ReservationDate: request.ReservationDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := service.userStore.Insert(ctx, user); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Error("Error creating user-side reservation copy: ", err)
		return nil, stderrors.New(errors.FailedToCreateReservation)
	}

	service.invalidateUserCache(ctx, request.UserID)
	service.publish(domain.ReservationEvent{
		Kind:   domain.EventReservationCreated,
		UserID: request.UserID,
		Status: domain.StatusPending,
		Admin:  created,
		User:   user,
	})

	title := "New booking request"
	body := fmt.Sprintf("%s booked %s (%s)", request.UserName, request.ServiceTitle, request.ServiceType)
	service.notifyAdmins(ctx, title, body, map[string]string{
		"reservationId": created.ID.Hex(),
		"serviceType":   string(request.ServiceType),
	})

	return created, nil
}

// SyncStatusFromAdminSide applies a staff-initiated status change. The
// admin record is the primary write, its result is the only one the
// caller sees. Locating and updating the user-side copy and notifying
// the user are best effort.
func (service *ReservationService) SyncStatusFromAdminSide(ctx context.Context, reservationID string, status domain.ReservationStatus) error {
	ctx, span := service.tracer.Start(ctx, "ReservationService.SyncStatusFromAdminSide")
	defer span.End()

	if !status.Valid() {
		span.SetStatus(codes.Error, errors.InvalidStatusError)
		return stderrors.New(errors.InvalidStatusError)
	}

	now := domain.NowTimestamp()

	if err := service.adminStore.UpdateStatus(ctx, reservationID, status, now); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Error("Error updating admin reservation status: ", err)
		if err.Error() == errors.ReservationNotFound {
			return err
		}
		return stderrors.New(errors.FailedToUpdateReservation)
	}

	admin, err := service.adminStore.GetByID(ctx, reservationID)
	if err != nil {
		// Primary write already succeeded, the caller is not told.
		service.logger.Error("Error reading admin reservation after status update: ", err)
		return nil
	}

	service.mirrorToUserSide(ctx, admin, status, now)
	service.invalidateUserCache(ctx, admin.UserID)
	service.publish(domain.ReservationEvent{
		Kind:   domain.EventStatusChanged,
		UserID: admin.UserID,
		Status: status,
		Admin:  admin,
	})

	title := "Reservation " + string(status)
	body := fmt.Sprintf("Your reservation for %s is now %s", admin.ServiceTitle, status)
	service.notifyUser(ctx, admin.UserID, title, body, map[string]string{
		"reservationId": reservationID,
		"serviceId":     admin.ServiceID,
		"serviceType":   string(admin.ServiceType),
		"status":        string(status),
	})
	service.mailUser(admin.UserEmail, title, body)

	return nil
}

// mirrorToUserSide fetches the whole user namespace and updates the
// first record matching (serviceId, serviceType). Zero matches is a
// silent no-op, more than one is a data anomaly, the first in
// iteration order wins and the duplicates are only logged.
func (service *ReservationService) mirrorToUserSide(ctx context.Context, admin *domain.AdminReservation, status domain.ReservationStatus, updatedAt string) {
	reservations, err := service.userStore.GetAllByUser(ctx, admin.UserID)
	if err != nil {
		service.logger.Error("Error fetching user reservations for status sync: ", err)
		return
	}

	var match *domain.UserReservation
	matches := 0
	for _, reservation := range reservations {
		if reservation.ServiceID == admin.ServiceID && reservation.ServiceType == admin.ServiceType {
			if match == nil {
				match = reservation
			}
			matches++
		}
	}

	if match == nil {
		service.logger.Warnf("No user reservation matches serviceId=%s serviceType=%s for user %s, copies will diverge",
			admin.ServiceID, admin.ServiceType, admin.UserID)
		return
	}
	if matches > 1 {
		service.logger.Warnf("Found %d user reservations matching serviceId=%s serviceType=%s for user %s, updating the first",
			matches, admin.ServiceID, admin.ServiceType, admin.UserID)
	}

	if err := service.userStore.UpdateStatus(ctx, admin.UserID, match.ID.Hex(), status, updatedAt); err != nil {
		service.logger.Error("Error mirroring status to user reservation: ", err)
	}
}

// CancelReservation applies a user-initiated cancellation. The user's
// own record is the primary write, mirroring the admin side and
// notifying staff are advisory.
func (service *ReservationService) CancelReservation(ctx context.Context, userID string, reservationID string) error {
	ctx, span := service.tracer.Start(ctx, "ReservationService.CancelReservation")
	defer span.End()

	now := domain.NowTimestamp()

	if err := service.userStore.UpdateStatus(ctx, userID, reservationID, domain.StatusCancelled, now); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Error("Error cancelling user reservation: ", err)
		if err.Error() == errors.ReservationNotFound {
			return err
		}
		return stderrors.New(errors.FailedToCancelReservation)
	}

	service.invalidateUserCache(ctx, userID)

	reservation, err := service.userStore.GetByID(ctx, userID, reservationID)
	if err != nil {
		service.logger.Error("Error reading user reservation after cancellation: ", err)
		return nil
	}

	if err := service.SyncStatusFromUserSide(ctx, userID, reservation.ServiceType, reservation.ServiceID, domain.StatusCancelled); err != nil {
		service.logger.Error("Error syncing cancellation to admin side: ", err)
	}

	service.publish(domain.ReservationEvent{
		Kind:   domain.EventStatusChanged,
		UserID: userID,
		Status: domain.StatusCancelled,
		User:   reservation,
	})

	return nil
}

// SyncStatusFromUserSide is the mirrored half of a user-initiated
// change, a full scan of the admin collection for the first record
// matching (userId, serviceId, serviceType). The returned error is
// advisory, callers are free to ignore it.
func (service *ReservationService) SyncStatusFromUserSide(ctx context.Context, userID string, serviceType domain.ServiceType, serviceID string, status domain.ReservationStatus) error {
	ctx, span := service.tracer.Start(ctx, "ReservationService.SyncStatusFromUserSide")
	defer span.End()

	reservations, err := service.adminStore.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var match *domain.AdminReservation
	matches := 0
	for _, reservation := range reservations {
		if reservation.UserID == userID && reservation.ServiceID == serviceID && reservation.ServiceType == serviceType {
			if match == nil {
				match = reservation
			}
			matches++
		}
	}

	if match == nil {
		service.logger.Warnf("No admin reservation matches userId=%s serviceId=%s serviceType=%s, copies will diverge",
			userID, serviceID, serviceType)
		return nil
	}
	if matches > 1 {
		service.logger.Warnf("Found %d admin reservations matching userId=%s serviceId=%s serviceType=%s, updating the first",
			matches, userID, serviceID, serviceType)
	}

	if err := service.adminStore.UpdateStatus(ctx, match.ID.Hex(), status, domain.NowTimestamp()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	title := "Reservation " + string(status)
	body := fmt.Sprintf("%s set reservation for %s to %s", match.UserName, match.ServiceTitle, status)
	service.notifyAdmins(ctx, title, body, map[string]string{
		"reservationId": match.ID.Hex(),
		"serviceId":     serviceID,
		"serviceType":   string(serviceType),
		"status":        string(status),
	})

	return nil
}

// RemoveUserReservation deletes only the user-side copy. The admin
// record stays, the two collections are never deleted together.
func (service *ReservationService) RemoveUserReservation(ctx context.Context, userID string, reservationID string) error {
	ctx, span := service.tracer.Start(ctx, "ReservationService.RemoveUserReservation")
	defer span.End()

	if err := service.userStore.Delete(ctx, userID, reservationID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Error("Error removing user reservation: ", err)
		if err.Error() == errors.ReservationNotFound {
			return err
		}
		return stderrors.New(errors.FailedToRemoveReservation)
	}

	service.invalidateUserCache(ctx, userID)
	service.publish(domain.ReservationEvent{
		Kind:   domain.EventReservationRemoved,
		UserID: userID,
	})

	return nil
}

func (service *ReservationService) GetAllReservations(ctx context.Context) ([]*domain.AdminReservation, error) {
	ctx, span := service.tracer.Start(ctx, "ReservationService.GetAllReservations")
	defer span.End()

	return service.adminStore.GetAll(ctx)
}

func (service *ReservationService) GetReservationByID(ctx context.Context, reservationID string) (*domain.AdminReservation, error) {
	ctx, span := service.tracer.Start(ctx, "ReservationService.GetReservationByID")
	defer span.End()

	return service.adminStore.GetByID(ctx, reservationID)
}

// GetUserReservations serves a user's list through the read cache,
// falling back to the store on a miss.
func (service *ReservationService) GetUserReservations(ctx context.Context, userID string) ([]*domain.UserReservation, error) {
	ctx, span := service.tracer.Start(ctx, "ReservationService.GetUserReservations")
	defer span.End()

	if service.cache != nil {
		if cached, err := service.cache.GetUserReservations(ctx, userID); err == nil {
			return cached, nil
		}
	}

	reservations, err := service.userStore.GetAllByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.PostUserReservations(ctx, userID, reservations); err != nil {
			service.logger.Error("Error caching user reservations: ", err)
		}
	}

	return reservations, nil
}

func (service *ReservationService) invalidateUserCache(ctx context.Context, userID string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.InvalidateUser(ctx, userID); err != nil {
		service.logger.Error("Error invalidating user reservation cache: ", err)
	}
}

func (service *ReservationService) publish(event domain.ReservationEvent) {
	if service.sink != nil {
		service.sink.Publish(event)
	}
}

func (service *ReservationService) notifyUser(ctx context.Context, userID, title, body string, data map[string]string) {
	if service.notifier == nil {
		return
	}
	result, err := service.notifier.NotifyUser(ctx, userID, title, body, data)
	if err != nil {
		service.logger.Warn("Error sending user notification: ", err)
		return
	}
	if result != nil && result.FailureCount > 0 {
		service.logger.Warnf("User notification partially delivered: %d sent, %d failed", result.SuccessCount, result.FailureCount)
	}
}

func (service *ReservationService) notifyAdmins(ctx context.Context, title, body string, data map[string]string) {
	if service.notifier == nil {
		return
	}
	result, err := service.notifier.NotifyAdmins(ctx, title, body, data)
	if err != nil {
		service.logger.Warn("Error sending admin notification: ", err)
		return
	}
	if result != nil && result.FailureCount > 0 {
		service.logger.Warnf("Admin notification partially delivered: %d sent, %d failed", result.SuccessCount, result.FailureCount)
	}
}

func (service *ReservationService) mailUser(email, subject, body string) {
	if service.mailer == nil || email == "" {
		return
	}
	if err := service.mailer.SendStatusMail(email, subject, body); err != nil {
		service.logger.Warn("Error sending status mail: ", err)
	}
}
