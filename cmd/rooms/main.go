package main

import (
	bookingshandler "salas/internal/bookings/handler"
	bookingsrepo "salas/internal/bookings/repository"
	bookingsservice "salas/internal/bookings/service"
	bookingsvalidator "salas/internal/bookings/validator"
	roomshandler "salas/internal/rooms/handler"
	roomsrepo "salas/internal/rooms/repository"
	roomsservice "salas/internal/rooms/service"
	roomsvalidator "salas/internal/rooms/validator"
	"salas/internal/store/memory"
	"salas/pkg/app"
	"salas/pkg/config"
	"salas/pkg/events"
	"salas/pkg/kafka"
	kafkamiddleware "salas/pkg/kafka/middleware"
	"salas/pkg/lock"
)

const ServiceName = "rooms"

type storage struct {
	rooms    roomsrepo.RoomRepository
	bookings bookingsrepo.BookingRepository
	locker   lock.Locker
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Rooms service", "storage_backend", cfg.StorageBackend)

	store := initStorage(cfg)
	publisher, metrics := initPublisher(cfg)

	roomService := roomsservice.NewRoomService(
		store.rooms,
		store.bookings,
		store.locker,
		roomsvalidator.NewRoomValidator(cfg.Log),
		publisher,
		cfg,
	)
	bookingService := bookingsservice.NewBookingService(
		store.bookings,
		store.rooms,
		store.locker,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	cfg.Log.Info("Room and booking services initialized")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		roomshandler.NewRoomHandler(roomService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.OnShutdown("event publisher", func() error {
		if metrics != nil {
			cfg.Log.Info("Event publisher metrics", metrics.Snapshot().Attrs()...)
		}
		return publisher.Close()
	})
	serverApp.OnShutdown("mongo", func() error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func initStorage(cfg *config.Config) storage {
	if !cfg.UsesMongo() {
		store := memory.New()
		cfg.Log.Info("Using in-memory storage")
		return storage{
			rooms:    store.Rooms(),
			bookings: store.Bookings(),
			locker:   lock.NewKeyedMutex(),
		}
	}

	cfg.SetMongo()
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	cfg.Log.Info("Using MongoDB storage", "database", cfg.MongoDatabaseName)
	return storage{
		rooms:    roomsrepo.NewMongoRoomRepository(cfg),
		bookings: bookingsrepo.NewMongoBookingRepository(cfg),
		locker:   lock.NewMongoLocker(db, cfg.RoomLockTTL, cfg.RoomLockRetryInterval, cfg.Log),
	}
}

func initPublisher(cfg *config.Config) (events.Publisher, *kafkamiddleware.Metrics) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Reservation events disabled")
		return events.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.EventsTopic, cfg.EventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := &kafkamiddleware.Metrics{}
	producer.Use(kafkamiddleware.Logging(cfg.Log, kafkamiddleware.OpPublish), metrics.Publish())

	cfg.Log.Info("Reservation events enabled", "topic", cfg.EventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName), metrics
}
