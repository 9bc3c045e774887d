package dto

import (
	"time"

	"github.com/google/uuid"

	"hotelier/internal/domains/booking/model"
	"hotelier/shared"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

type CreateBookingRequest struct {
	GuestID         string `json:"guest_id" validate:"required,uuid"`
	RoomID          string `json:"room_id" validate:"required,uuid"`
	CheckIn         string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Status          string `json:"status" validate:"omitempty,oneof=confirmed checked-in"`
	PaymentStatus   string `json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
}

// Interval parses the requested stay. Validation has already checked the
// date format, so parse errors do not occur here.
func (c *CreateBookingRequest) Interval() model.Interval {
	checkIn, _ := time.Parse(constant.DateOnlyFormat, c.CheckIn)
	checkOut, _ := time.Parse(constant.DateOnlyFormat, c.CheckOut)

	return model.Interval{CheckIn: checkIn, CheckOut: checkOut}
}

func (c *CreateBookingRequest) ToModel(user string) model.Booking {
	status := c.Status
	if status == "" {
		status = model.StatusConfirmed
	}

	paymentStatus := c.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = model.PaymentStatusPending
	}

	interval := c.Interval()

	return model.Booking{
		ID:              uuid.NewString(),
		GuestID:         c.GuestID,
		RoomID:          c.RoomID,
		CheckIn:         interval.CheckIn,
		CheckOut:        interval.CheckOut,
		Status:          status,
		PaymentStatus:   paymentStatus,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateBookingRequest is a partial update. Check-in, check-out and room
// changes are re-validated against the availability rules before being
// applied, so they carry no db tag and are written by the service.
type UpdateBookingRequest struct {
	RoomID          string `json:"room_id" validate:"omitempty,uuid"`
	CheckIn         string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut        string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Status          string `db:"status" json:"status" validate:"omitempty,oneof=confirmed checked-in checked-out cancelled"`
	PaymentStatus   string `db:"payment_status" json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=1000"`
}

type GuestSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type RoomSummary struct {
	ID     string  `json:"id"`
	Number string  `json:"number"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
}

type BookingResponse struct {
	ID              string       `json:"id"`
	Guest           GuestSummary `json:"guest"`
	Room            RoomSummary  `json:"room"`
	CheckIn         string       `json:"check_in"`
	CheckOut        string       `json:"check_out"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"payment_status"`
	SpecialRequests string       `json:"special_requests"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Guest = GuestSummary{
		ID:    model.GuestID,
		Name:  model.GuestName,
		Email: model.GuestEmail,
		Phone: model.GuestPhone,
	}
	r.Room = RoomSummary{
		ID:     model.RoomID,
		Number: model.RoomNumber,
		Type:   model.RoomType,
		Price:  model.RoomPrice,
	}
	r.CheckIn = model.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = model.CheckOut.Format(constant.DateOnlyFormat)
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the message published to the booking lifecycle topic.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	GuestID    string `json:"guest_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventBookingDeleted   = "booking.deleted"
)

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		GuestID:    booking.GuestID,
		Status:     booking.Status,
		OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
	}
}
