package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/cache"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/casbinAuthorization"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/handlers"
	application "github.com/Jayveebrianibale/GereuOnlineHub-sub000/service"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/startup/config"
	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/booking.log"
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Message,
	)

	return []byte(msg), nil
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Fatalf("Failed to create rotatelogs hook: %v", err)
	}
	Logger.SetOutput(writer)

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.BookingDBHost, server.config.BookingDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		if err := mongoClient.Disconnect(ctx); err != nil {
			Logger.Error("Error disconnecting mongo client: ", err)
		}
	}(mongoClient, context.Background())

	redisClient := store.GetRedisClient(server.config.ReservationCacheHost, server.config.ReservationCachePort)

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("booking_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	adminStore := store.NewAdminReservationMongoDBStore(mongoClient, tracer, Logger)
	userStore := store.NewUserReservationMongoDBStore(mongoClient, tracer, Logger)
	reservationCache := store.NewReservationRedisCache(redisClient, tracer, Logger)

	notifier := application.NewRelayNotifier(server.config.NotificationRelay, tracer, Logger)

	var mailer domain.Mailer
	if server.config.SMTPHost != "" {
		mailer = application.NewSMTPMailer(server.config.SMTPHost, server.config.SMTPPort, server.config.SMTPEmail, server.config.SMTPPassword)
	}

	feed := cache.NewReservationFeed(Logger)

	reservationService := application.NewReservationService(
		adminStore, userStore, reservationCache, notifier, mailer, feed, tracer, Logger)

	reservationHandler := handlers.NewReservationHandler(reservationService, feed, tracer, Logger)

	server.start(reservationHandler)
}

func (server *Server) start(reservationHandler *handlers.ReservationHandler) {
	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.Use(handlers.MiddlewareContentTypeSet)
	reservationHandler.Init(router)

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))
	handler := cors(casbinAuthorization.CasbinMiddleware(enforcer, Logger)(router))

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", server.config.Port),
		Handler:     handler,
		IdleTimeout: 120 * time.Second,
		ReadTimeout: 5 * time.Second,
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("booking_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
