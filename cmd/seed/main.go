package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"hotelier/config"
	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	bookingModel "hotelier/internal/domains/booking/model"
	bookingRepository "hotelier/internal/domains/booking/repository"
	guestModel "hotelier/internal/domains/guest/model"
	guestRepository "hotelier/internal/domains/guest/repository"
	roomModel "hotelier/internal/domains/room/model"
	roomRepository "hotelier/internal/domains/room/repository"
	"hotelier/shared/constant"
	"hotelier/shared/logger"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

func metadata() gModel.Metadata {
	return gModel.Metadata{
		CreatedAt:  timezone.Now(),
		ModifiedAt: timezone.Now(),
		CreatedBy:  constant.SystemActor,
		ModifiedBy: constant.SystemActor,
	}
}

func seedRooms() []roomModel.Room {
	rooms := []roomModel.Room{
		{Number: "101", Type: roomModel.TypeSingle, Price: 100, Status: roomModel.StatusAvailable, Amenities: pq.StringArray{"WiFi", "TV", "AC"}, Capacity: 1},
		{Number: "102", Type: roomModel.TypeDouble, Price: 150, Status: roomModel.StatusAvailable, Amenities: pq.StringArray{"WiFi", "TV", "AC", "Mini Bar"}, Capacity: 2},
		{Number: "103", Type: roomModel.TypeSuite, Price: 250, Status: roomModel.StatusAvailable, Amenities: pq.StringArray{"WiFi", "TV", "AC", "Mini Bar", "Jacuzzi"}, Capacity: 3},
		{Number: "104", Type: roomModel.TypeDeluxe, Price: 350, Status: roomModel.StatusOccupied, Amenities: pq.StringArray{"WiFi", "TV", "AC", "Mini Bar", "Jacuzzi", "Sea View"}, Capacity: 4},
		{Number: "105", Type: roomModel.TypeSingle, Price: 100, Status: roomModel.StatusMaintenance, Amenities: pq.StringArray{"WiFi", "TV", "AC"}, Capacity: 1},
	}

	for i := range rooms {
		rooms[i].ID = uuid.NewString()
		rooms[i].Metadata = metadata()
	}

	return rooms
}

func seedGuests() []guestModel.Guest {
	guests := []guestModel.Guest{
		{
			Name: "John Smith", Email: "john.smith@example.com", Phone: "+1234567890",
			AddressStreet: "123 Main St", AddressCity: "New York", AddressState: "NY",
			AddressCountry: "USA", AddressZipCode: "10001",
			IDProofType: guestModel.IDProofPassport, IDProofNumber: "P12345678",
		},
		{
			Name: "Emma Johnson", Email: "emma.j@example.com", Phone: "+1987654321",
			AddressStreet: "456 Oak Ave", AddressCity: "Los Angeles", AddressState: "CA",
			AddressCountry: "USA", AddressZipCode: "90001",
			IDProofType: guestModel.IDProofDriverLicense, IDProofNumber: "DL98765432",
		},
		{
			Name: "Michael Chen", Email: "m.chen@example.com", Phone: "+1122334455",
			AddressStreet: "789 Pine Rd", AddressCity: "Chicago", AddressState: "IL",
			AddressCountry: "USA", AddressZipCode: "60601",
			IDProofType: guestModel.IDProofNationalID, IDProofNumber: "NID55667788",
		},
	}

	for i := range guests {
		guests[i].ID = uuid.NewString()
		guests[i].Metadata = metadata()
	}

	return guests
}

func date(value string) time.Time {
	parsed, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		log.Fatal().Err(err).Str("value", value).Msg("Failed to parse seed date")
	}

	return parsed
}

func seedBookings(rooms []roomModel.Room, guests []guestModel.Guest) []bookingModel.Booking {
	bookings := []bookingModel.Booking{
		{
			GuestID: guests[0].ID, RoomID: rooms[0].ID,
			CheckIn: date("2024-01-15"), CheckOut: date("2024-01-20"),
			Status: bookingModel.StatusConfirmed, PaymentStatus: bookingModel.PaymentStatusPaid,
			SpecialRequests: "Need extra pillows",
		},
		{
			GuestID: guests[1].ID, RoomID: rooms[1].ID,
			CheckIn: date("2024-01-10"), CheckOut: date("2024-01-15"),
			Status: bookingModel.StatusCheckedIn, PaymentStatus: bookingModel.PaymentStatusPaid,
			SpecialRequests: "Late check-in requested",
		},
		{
			GuestID: guests[2].ID, RoomID: rooms[3].ID,
			CheckIn: date("2024-01-12"), CheckOut: date("2024-01-18"),
			Status: bookingModel.StatusCheckedOut, PaymentStatus: bookingModel.PaymentStatusPaid,
			SpecialRequests: "Vegetarian meals",
		},
	}

	for i := range bookings {
		bookings[i].ID = uuid.NewString()
		bookings[i].Metadata = metadata()
	}

	return bookings
}

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	db := postgres.ProvidePostgres(cfg)
	tracer := otel.New(cfg)

	roomRepo := roomRepository.New(db, tracer)
	guestRepo := guestRepository.New(db, tracer)
	bookingRepo := bookingRepository.New(db, tracer)

	ctx := context.Background()

	rooms := seedRooms()
	if err := roomRepo.InsertBulk(ctx, rooms); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed rooms")
	}

	guests := seedGuests()
	if err := guestRepo.InsertBulk(ctx, guests); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed guests")
	}

	bookings := seedBookings(rooms, guests)
	if err := bookingRepo.InsertBulk(ctx, bookings); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed bookings")
	}

	log.Info().
		Int("rooms", len(rooms)).
		Int("guests", len(guests)).
		Int("bookings", len(bookings)).
		Msg("Database seeded successfully")
}
