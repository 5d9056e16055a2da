package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvJWTSecret          = "JWT_SECRET"
	EnvTokenTTL           = "TOKEN_TTL"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRedisURL = "REDIS_URL"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
	EnvKafkaMaxAttempts   = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaBatchTimeout  = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaCompression   = "KAFKA_PRODUCER_COMPRESSION"

	EnvR2Endpoint  = "R2_ENDPOINT"
	EnvR2AccessKey = "R2_ACCESS_KEY"
	EnvR2SecretKey = "R2_SECRET_KEY"
	EnvR2Bucket    = "R2_BUCKET"
	EnvR2PublicURL = "R2_PUBLIC_URL"

	EnvRoomLockTTL = "ROOM_LOCK_TTL"
)
