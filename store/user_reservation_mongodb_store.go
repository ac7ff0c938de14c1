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

const USER_COLLECTION = "userReservations"

// UserReservationMongoDBStore keeps every user's copies in one
// collection, the userId field acts as the per-user namespace.
type UserReservationMongoDBStore struct {
	reservations *mongo.Collection
	tracer       trace.Tracer
	logger       *logrus.Logger
}

func NewUserReservationMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.UserReservationStore {
	reservations := client.Database(DATABASE).Collection(USER_COLLECTION)
	return &UserReservationMongoDBStore{
		reservations: reservations,
		tracer:       tracer,
		logger:       logger,
	}
}

func (store *UserReservationMongoDBStore) Insert(ctx context.Context, reservation *domain.UserReservation) (*domain.UserReservation, error) {
	ctx, span := store.tracer.Start(ctx, "UserReservationMongoDBStore.Insert")
	defer span.End()

	reservation.ID = primitive.NewObjectID()
	result, err := store.reservations.InsertOne(ctx, reservation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error inserting user reservation: ", err)
		return nil, err
	}
	reservation.ID = result.InsertedID.(primitive.ObjectID)
	return reservation, nil
}

func (store *UserReservationMongoDBStore) GetByID(ctx context.Context, userID string, id string) (*domain.UserReservation, error) {
	ctx, span := store.tracer.Start(ctx, "UserReservationMongoDBStore.GetByID")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := store.reservations.FindOne(ctx, bson.M{"_id": objectID, "userId": userID})
	var reservation *domain.UserReservation
	err = result.Decode(&reservation)
	if err == mongo.ErrNoDocuments {
		return nil, stderrors.New(errors.ReservationNotFound)
	}
	return reservation, err
}

func (store *UserReservationMongoDBStore) GetAllByUser(ctx context.Context, userID string) ([]*domain.UserReservation, error) {
	ctx, span := store.tracer.Start(ctx, "UserReservationMongoDBStore.GetAllByUser")
	defer span.End()

	cursor, err := store.reservations.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var reservations []*domain.UserReservation
	for cursor.Next(ctx) {
		var reservation domain.UserReservation
		if err := cursor.Decode(&reservation); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		reservations = append(reservations, &reservation)
	}
	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return reservations, nil
}

func (store *UserReservationMongoDBStore) UpdateStatus(ctx context.Context, userID string, id string, status domain.ReservationStatus, updatedAt string) error {
	ctx, span := store.tracer.Start(ctx, "UserReservationMongoDBStore.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}}
	result, err := store.reservations.UpdateOne(ctx, bson.M{"_id": objectID, "userId": userID}, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error updating user reservation status: ", err)
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.ReservationNotFound)
		return stderrors.New(errors.ReservationNotFound)
	}

	return nil
}

func (store *UserReservationMongoDBStore) Delete(ctx context.Context, userID string, id string) error {
	ctx, span := store.tracer.Start(ctx, "UserReservationMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result, err := store.reservations.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Error("Error deleting user reservation: ", err)
		return err
	}

	if result.DeletedCount == 0 {
		return stderrors.New(errors.ReservationNotFound)
	}

	return nil
}
