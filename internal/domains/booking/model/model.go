package model

import (
	"slices"
	"time"

	"hotelier/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldGuestID         = "guest_id"
	FieldRoomID          = "room_id"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldSpecialRequests = "special_requests"
)

const (
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// ActiveStatuses are the statuses that occupy a room and participate in the
// overlap check.
var ActiveStatuses = []string{StatusConfirmed, StatusCheckedIn}

// transitions is the legal status state machine. Checked-out and cancelled
// are terminal.
var transitions = map[string][]string{
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}

	return slices.Contains(transitions[from], to)
}

// IsActiveStatus reports whether the status occupies the room.
func IsActiveStatus(status string) bool {
	return slices.Contains(ActiveStatuses, status)
}

type Booking struct {
	ID              string    `db:"id"`
	GuestID         string    `db:"guest_id"`
	RoomID          string    `db:"room_id"`
	CheckIn         time.Time `db:"check_in"`
	CheckOut        time.Time `db:"check_out"`
	Status          string    `db:"status"`
	PaymentStatus   string    `db:"payment_status"`
	SpecialRequests string    `db:"special_requests"`

	GuestName  string  `db:"booking_guest_name" table:"guests" column:"name"`
	GuestEmail string  `db:"booking_guest_email" table:"guests" column:"email"`
	GuestPhone string  `db:"booking_guest_phone" table:"guests" column:"phone"`
	RoomNumber string  `db:"booking_room_number" table:"rooms" column:"number"`
	RoomType   string  `db:"booking_room_type" table:"rooms" column:"type"`
	RoomPrice  float64 `db:"booking_room_price" table:"rooms" column:"price"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN guests ON guests.id = bookings.guest_id LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// Interval returns the booking's stay as a half-open interval.
func (b *Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// IsActive reports whether the booking currently occupies its room.
func (b *Booking) IsActive() bool {
	return IsActiveStatus(b.Status)
}
