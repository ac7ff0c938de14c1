package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
)

const userReservationsTTL = 10 * time.Minute

type ReservationRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewReservationRedisCache(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ReservationCache {
	return &ReservationRedisCache{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

func userReservationsKey(userID string) string {
	return fmt.Sprintf("userReservations:%s", userID)
}

func (c *ReservationRedisCache) PostUserReservations(ctx context.Context, userID string, reservations []*domain.UserReservation) error {
	ctx, span := c.tracer.Start(ctx, "ReservationRedisCache.PostUserReservations")
	defer span.End()

	value, err := json.Marshal(reservations)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result := c.client.Set(userReservationsKey(userID), value, userReservationsTTL)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error posting cached value")
		c.logger.Errorf("redis set error: %s", result.Err())
		return result.Err()
	}

	return nil
}

func (c *ReservationRedisCache) GetUserReservations(ctx context.Context, userID string) ([]*domain.UserReservation, error) {
	ctx, span := c.tracer.Start(ctx, "ReservationRedisCache.GetUserReservations")
	defer span.End()

	result := c.client.Get(userReservationsKey(userID))
	value, err := result.Result()
	if err != nil {
		if err != redis.Nil {
			span.SetStatus(codes.Error, "Error getting cached value")
			c.logger.Error(err)
		}
		return nil, err
	}

	var reservations []*domain.UserReservation
	if err := json.Unmarshal([]byte(value), &reservations); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return reservations, nil
}

func (c *ReservationRedisCache) InvalidateUser(ctx context.Context, userID string) error {
	ctx, span := c.tracer.Start(ctx, "ReservationRedisCache.InvalidateUser")
	defer span.End()

	result := c.client.Del(userReservationsKey(userID))
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error deleting cached value")
		c.logger.Error(result.Err())
		return result.Err()
	}

	return nil
}
