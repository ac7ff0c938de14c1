package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                 string
	BookingDBHost        string
	BookingDBPort        string
	ReservationCacheHost string
	ReservationCachePort string
	NotificationRelay    string
	JaegerAddress        string
	SMTPHost             string
	SMTPPort             int
	SMTPEmail            string
	SMTPPassword         string
}

func NewConfig() *Config {
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_SERVER_PORT"))

	return &Config{
		Port:                 os.Getenv("BOOKING_SERVICE_PORT"),
		BookingDBHost:        os.Getenv("BOOKING_DB_HOST"),
		BookingDBPort:        os.Getenv("BOOKING_DB_PORT"),
		ReservationCacheHost: os.Getenv("RESERVATION_CACHE_HOST"),
		ReservationCachePort: os.Getenv("RESERVATION_CACHE_PORT"),
		NotificationRelay:    os.Getenv("NOTIFICATION_RELAY_ADDRESS"),
		JaegerAddress:        os.Getenv("JAEGER_ADDRESS"),
		SMTPHost:             os.Getenv("SMTP_SERVER"),
		SMTPPort:             smtpPort,
		SMTPEmail:            os.Getenv("SMTP_AUTH_MAIL"),
		SMTPPassword:         os.Getenv("SMTP_AUTH_PASSWORD"),
	}
}
