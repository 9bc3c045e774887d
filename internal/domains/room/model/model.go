package model

import (
	"github.com/lib/pq"

	"hotelier/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID        = "id"
	FieldNumber    = "number"
	FieldType      = "type"
	FieldPrice     = "price"
	FieldStatus    = "status"
	FieldAmenities = "amenities"
	FieldCapacity  = "capacity"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

const (
	TypeSingle = "single"
	TypeDouble = "double"
	TypeSuite  = "suite"
	TypeDeluxe = "deluxe"
)

type Room struct {
	ID        string         `db:"id"`
	Number    string         `db:"number"`
	Type      string         `db:"type"`
	Price     float64        `db:"price"`
	Status    string         `db:"status"`
	Amenities pq.StringArray `db:"amenities"`
	Capacity  int            `db:"capacity"`
	model.Metadata
}
