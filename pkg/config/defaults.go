package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotel"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize  = 10 * 1024 * 1024 // 10MB, room photos

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTokenTTL           = 7 * 24 * time.Hour
	DefaultCORSAllowedOrigins = "*"
	MinSigningKeyBytes        = 32

	DefaultKafkaBrokers       = "localhost:9092"
	DefaultBookingEventsTopic = "hotel.booking-events"
	DefaultKafkaMaxAttempts   = 3
	DefaultKafkaBatchTimeout  = 10 * time.Millisecond
	DefaultKafkaCompression   = "snappy"

	DefaultRoomLockTTL = 45 * time.Second // outlives RequestTimeout

	DefaultPaginationLimit = 50
	MaxPaginationLimit     = 500
)
