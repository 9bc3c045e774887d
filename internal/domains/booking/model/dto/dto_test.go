package dto_test

import (
	"testing"
	"time"

	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/model/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		GuestID:         "11111111-1111-1111-1111-111111111111",
		RoomID:          "22222222-2222-2222-2222-222222222222",
		CheckIn:         "2024-01-15",
		CheckOut:        "2024-01-20",
		SpecialRequests: "Need extra pillows",
	}

	user := "test-user-id"
	bookingModel := req.ToModel(user)

	assert.NotEmpty(t, bookingModel.ID, "expected ID to be generated")
	assert.Equal(t, req.GuestID, bookingModel.GuestID)
	assert.Equal(t, req.RoomID, bookingModel.RoomID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), bookingModel.CheckIn)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), bookingModel.CheckOut)
	assert.Equal(t, model.StatusConfirmed, bookingModel.Status, "expected status to default to confirmed")
	assert.Equal(t, model.PaymentStatusPending, bookingModel.PaymentStatus, "expected payment status to default to pending")
	assert.Equal(t, req.SpecialRequests, bookingModel.SpecialRequests)
	assert.Equal(t, user, bookingModel.CreatedBy)
	assert.Equal(t, user, bookingModel.ModifiedBy)
	assert.False(t, bookingModel.CreatedAt.IsZero(), "expected CreatedAt to be set")
}

func TestCreateBookingRequest_ToModelKeepsStatuses(t *testing.T) {
	req := dto.CreateBookingRequest{
		GuestID:       "11111111-1111-1111-1111-111111111111",
		RoomID:        "22222222-2222-2222-2222-222222222222",
		CheckIn:       "2024-01-10",
		CheckOut:      "2024-01-15",
		Status:        model.StatusCheckedIn,
		PaymentStatus: model.PaymentStatusPaid,
	}

	bookingModel := req.ToModel("test-user-id")

	assert.Equal(t, model.StatusCheckedIn, bookingModel.Status)
	assert.Equal(t, model.PaymentStatusPaid, bookingModel.PaymentStatus)
}

func TestCreateBookingRequest_Interval(t *testing.T) {
	req := dto.CreateBookingRequest{
		CheckIn:  "2024-01-15",
		CheckOut: "2024-01-20",
	}

	interval := req.Interval()

	assert.True(t, interval.IsValid())
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), interval.CheckIn)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), interval.CheckOut)
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	bookingModel := model.Booking{
		ID:              "test-id",
		GuestID:         "guest-id",
		RoomID:          "room-id",
		CheckIn:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CheckOut:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Status:          model.StatusConfirmed,
		PaymentStatus:   model.PaymentStatusPaid,
		SpecialRequests: "Need extra pillows",
		GuestName:       "John Smith",
		GuestEmail:      "john.smith@example.com",
		GuestPhone:      "+1234567890",
		RoomNumber:      "101",
		RoomType:        "single",
		RoomPrice:       100,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}

	var response dto.BookingResponse
	response.FromModel(bookingModel)

	assert.Equal(t, bookingModel.ID, response.ID)
	assert.Equal(t, dto.GuestSummary{
		ID:    "guest-id",
		Name:  "John Smith",
		Email: "john.smith@example.com",
		Phone: "+1234567890",
	}, response.Guest, "expected joined guest details")
	assert.Equal(t, dto.RoomSummary{
		ID:     "room-id",
		Number: "101",
		Type:   "single",
		Price:  100,
	}, response.Room, "expected joined room details")
	assert.Equal(t, "2024-01-15", response.CheckIn)
	assert.Equal(t, "2024-01-20", response.CheckOut)
	assert.Equal(t, bookingModel.Status, response.Status)
	assert.Equal(t, bookingModel.PaymentStatus, response.PaymentStatus)
	assert.Equal(t, bookingModel.SpecialRequests, response.SpecialRequests)
}

func TestNewBookingEvent(t *testing.T) {
	bookingModel := model.Booking{
		ID:      "test-id",
		GuestID: "guest-id",
		RoomID:  "room-id",
		Status:  model.StatusCancelled,
	}

	event := dto.NewBookingEvent(dto.EventBookingCancelled, bookingModel)

	assert.Equal(t, dto.EventBookingCancelled, event.Type)
	assert.Equal(t, bookingModel.ID, event.BookingID)
	assert.Equal(t, bookingModel.RoomID, event.RoomID)
	assert.Equal(t, bookingModel.GuestID, event.GuestID)
	assert.Equal(t, bookingModel.Status, event.Status)
	assert.NotEmpty(t, event.OccurredAt)
}
