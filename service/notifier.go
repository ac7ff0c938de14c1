package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
)

// RelayNotifier talks to the external push relay. Delivery is advisory,
// the relay resolves device tokens server-side and reports counts back.
type RelayNotifier struct {
	address string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewRelayNotifier(address string, tracer trace.Tracer, logger *logrus.Logger) *RelayNotifier {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	return &RelayNotifier{
		address: strings.TrimRight(address, "/"),
		client:  httpClient,
		cb:      CircuitBreaker("notificationRelay", logger),
		tracer:  tracer,
		logger:  logger,
	}
}

func (n *RelayNotifier) NotifyUser(ctx context.Context, userID string, title string, body string, data map[string]string) (*domain.NotificationResult, error) {
	ctx, span := n.tracer.Start(ctx, "RelayNotifier.NotifyUser")
	defer span.End()

	payload := map[string]interface{}{
		"userId": userID,
		"title":  title,
		"body":   body,
		"data":   data,
	}
	result, err := n.post(ctx, "/api/notify-user", payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (n *RelayNotifier) NotifyAdmins(ctx context.Context, title string, body string, data map[string]string) (*domain.NotificationResult, error) {
	ctx, span := n.tracer.Start(ctx, "RelayNotifier.NotifyAdmins")
	defer span.End()

	payload := map[string]interface{}{
		"title": title,
		"body":  body,
		"data":  data,
	}
	result, err := n.post(ctx, "/api/notify-admins", payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (n *RelayNotifier) post(ctx context.Context, path string, payload map[string]interface{}) (*domain.NotificationResult, error) {
	result, breakerErr := n.cb.Execute(func() (interface{}, error) {
		requestBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("Error marshaling notification payload: %v", err)
		}

		endpoint := n.address + path
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
		if err != nil {
			return nil, err
		}
		request.Header.Set("Content-Type", "application/json")
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))

		response, err := n.client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("Error reaching notification relay: %v", err)
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			buf := new(strings.Builder)
			_, _ = io.Copy(buf, response.Body)
			return nil, fmt.Errorf("NotificationRelayError: %d %s", response.StatusCode, buf.String())
		}

		var notificationResult domain.NotificationResult
		if err := json.NewDecoder(response.Body).Decode(&notificationResult); err != nil {
			return nil, fmt.Errorf("Error decoding notification relay response: %v", err)
		}

		return &notificationResult, nil
	})

	if breakerErr != nil {
		return nil, breakerErr
	}

	notificationResult, ok := result.(*domain.NotificationResult)
	if !ok {
		return nil, fmt.Errorf("Internal server error: Unexpected result type")
	}

	return notificationResult, nil
}

func CircuitBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
