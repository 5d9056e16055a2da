package main

import (
	"context"

	_ "hotelbooking/docs"
	authhandler "hotelbooking/internal/auth/handler"
	authservice "hotelbooking/internal/auth/service"
	authvalidator "hotelbooking/internal/auth/validator"
	"hotelbooking/internal/bookings/events"
	bookinghandler "hotelbooking/internal/bookings/handler"
	bookingrepo "hotelbooking/internal/bookings/repository"
	bookingservice "hotelbooking/internal/bookings/service"
	bookingvalidator "hotelbooking/internal/bookings/validator"
	roomhandler "hotelbooking/internal/rooms/handler"
	roomrepo "hotelbooking/internal/rooms/repository"
	roomservice "hotelbooking/internal/rooms/service"
	roomvalidator "hotelbooking/internal/rooms/validator"
	userhandler "hotelbooking/internal/users/handler"
	userrepo "hotelbooking/internal/users/repository"
	userservice "hotelbooking/internal/users/service"
	"hotelbooking/pkg/app"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/kafka"
	kafkamiddleware "hotelbooking/pkg/kafka/middleware"
	"hotelbooking/pkg/storage"
	"hotelbooking/pkg/token"
)

const ServiceName = "hotel-booking"

// @title Hotel Booking API
// @version 1.0
// @description Rooms, bookings and accounts of a single hotel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Hotel Booking service")
	serverApp := app.NewApplication(cfg)

	key, err := cfg.SigningKey()
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Invalid signing key", "error", err)
	}
	codec, err := token.NewCodec(key, token.WithTTL(cfg.TokenTTL))
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to create token codec", "error", err)
	}

	rooms := roomrepo.NewMongoRoomRepository(cfg)
	users := userrepo.NewMongoUserRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	locks := initRoomLocks(cfg)

	objectStorage := initObjectStorage(cfg)
	publisher := initPublisher(cfg, serverApp)

	authService := authservice.NewAuthService(users, codec, authvalidator.NewAuthValidator(cfg.Log), cfg)
	roomService := roomservice.NewRoomService(rooms, bookings, locks, objectStorage, roomvalidator.NewRoomValidator(cfg.Log), cfg)
	bookingService := bookingservice.NewBookingService(
		bookings,
		locks,
		rooms,
		users,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	userService := userservice.NewUserService(users, bookings, rooms, cfg)
	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		app.Auth{Verifier: codec, Store: users},
		authhandler.NewAuthHandler(authService, cfg.Log),
		roomhandler.NewRoomHandler(roomService, int64(cfg.MaxUploadSize), cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		userhandler.NewUserHandler(userService, cfg.Log),
	)
	serverApp.Run()
}

func initRoomLocks(cfg *config.Config) bookingrepo.RoomLockRepository {
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Room locks stored in Redis")
		return bookingrepo.NewRedisRoomLockRepository(cfg.Client.Redis)
	}
	return bookingrepo.NewRoomLockRepository(cfg)
}

func initObjectStorage(cfg *config.Config) storage.ObjectStorage {
	if !cfg.ObjectStorageEnabled() {
		cfg.Log.Warn("R2 settings incomplete, room photo uploads are disabled")
		return storage.Disabled{}
	}

	r2, err := storage.NewR2Storage(context.Background(), cfg)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to configure object storage", "error", err)
	}
	cfg.Log.Info("Object storage configured", "bucket", cfg.R2Bucket)
	return r2
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		return events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		MaxAttempts:  cfg.KafkaMaxAttempts,
		BatchTimeout: cfg.KafkaBatchTimeout,
		Compression:  cfg.KafkaCompression,
	}, cfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	serverApp.OnShutdown(producer)

	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}
