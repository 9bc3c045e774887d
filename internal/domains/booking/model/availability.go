package model

import (
	"time"

	"hotelier/shared/dto"
)

// Interval is a half-open [CheckIn, CheckOut) date range.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// IsValid reports whether the interval is well-formed, i.e. the check-out
// date falls strictly after the check-in date.
func (i Interval) IsValid() bool {
	return i.CheckIn.Before(i.CheckOut)
}

// Overlaps implements the half-open overlap test: [a1,b1) and [a2,b2)
// conflict iff a1 < b2 and a2 < b1. Touching endpoints do not conflict, so a
// stay may start on the day another ends.
func (i Interval) Overlaps(other Interval) bool {
	return i.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(i.CheckOut)
}

// FindConflict returns the first active booking whose stay overlaps the
// proposed interval, ignoring the booking identified by excludeID. It returns
// nil when the room is free for the whole interval.
func FindConflict(bookings []Booking, interval Interval, excludeID string) *Booking {
	for idx := range bookings {
		booking := &bookings[idx]

		if booking.ID == excludeID {
			continue
		}

		if !booking.IsActive() {
			continue
		}

		if interval.Overlaps(booking.Interval()) {
			return booking
		}
	}

	return nil
}

// ActiveForRoomFilter matches active bookings referencing the given room.
func ActiveForRoomFilter(roomID string) dto.FilterGroup {
	return activeFilter(FieldRoomID, roomID)
}

// ActiveForGuestFilter matches active bookings referencing the given guest.
func ActiveForGuestFilter(guestID string) dto.FilterGroup {
	return activeFilter(FieldGuestID, guestID)
}

func activeFilter(field, value string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    TableName,
			},
			dto.Filter{
				Field:    FieldStatus,
				Value:    ActiveStatuses,
				Operator: dto.FilterOperatorIn,
				Table:    TableName,
			},
		},
	}
}
