package store

import (
	"context"
	stderrors "errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/errors"
)

const (
	DATABASE         = "booking"
	ADMIN_COLLECTION = "adminReservations"
)

type AdminReservationMongoDBStore struct {
	reservations *mongo.Collection
	tracer       trace.Tracer
	logger       *logrus.Logger
}

func NewAdminReservationMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.AdminReservationStore {
	reservations := client.Database(DATABASE).Collection(ADMIN_COLLECTION)
	return &AdminReservationMongoDBStore{
		reservations: reservations,
		tracer:       tracer,
		logger:       logger,
	}
}

func (store *AdminReservationMongoDBStore) Insert(ctx context.Context, reservation *domain.AdminReservation) (*domain.AdminReservation, error) {
	ctx, span := store.tracer.Start(ctx, "AdminReservationMongoDBStore.Insert")
	defer span.End()

	reservation.ID = primitive.NewObjectID()
	result, err := store.reservations.InsertOne(ctx, reservation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error inserting admin reservation: ", err)
		return nil, err
	}
	reservation.ID = result.InsertedID.(primitive.ObjectID)
	return reservation, nil
}

func (store *AdminReservationMongoDBStore) GetByID(ctx context.Context, id string) (*domain.AdminReservation, error) {
	ctx, span := store.tracer.Start(ctx, "AdminReservationMongoDBStore.GetByID")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	filter := bson.M{"_id": objectID}
	return store.filterOne(ctx, filter)
}

func (store *AdminReservationMongoDBStore) GetAll(ctx context.Context) ([]*domain.AdminReservation, error) {
	ctx, span := store.tracer.Start(ctx, "AdminReservationMongoDBStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(ctx, filter)
}

func (store *AdminReservationMongoDBStore) UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus, updatedAt string) error {
	ctx, span := store.tracer.Start(ctx, "AdminReservationMongoDBStore.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}}
	result, err := store.reservations.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error updating admin reservation status: ", err)
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.ReservationNotFound)
		return stderrors.New(errors.ReservationNotFound)
	}

	return nil
}

func (store *AdminReservationMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "AdminReservationMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result, err := store.reservations.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error deleting admin reservation: ", err)
		return err
	}

	if result.DeletedCount == 0 {
		return stderrors.New(errors.ReservationNotFound)
	}

	return nil
}

func (store *AdminReservationMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.AdminReservation, error) {
	cursor, err := store.reservations.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeAdmin(ctx, cursor)
}

func (store *AdminReservationMongoDBStore) filterOne(ctx context.Context, filter interface{}) (reservation *domain.AdminReservation, err error) {
	result := store.reservations.FindOne(ctx, filter)
	err = result.Decode(&reservation)
	if err == mongo.ErrNoDocuments {
		return nil, stderrors.New(errors.ReservationNotFound)
	}
	return
}

func decodeAdmin(ctx context.Context, cursor *mongo.Cursor) (reservations []*domain.AdminReservation, err error) {
	for cursor.Next(ctx) {
		var reservation domain.AdminReservation
		err = cursor.Decode(&reservation)
		if err != nil {
			return
		}
		reservations = append(reservations, &reservation)
	}
	err = cursor.Err()
	return
}
