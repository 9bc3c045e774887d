package dto

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"hotelier/internal/domains/room/model"
	"hotelier/shared"
	gDto "hotelier/shared/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

type CreateRoomRequest struct {
	Number    string   `json:"number" validate:"required,max=50"`
	Type      string   `json:"type" validate:"required,oneof=single double suite deluxe"`
	Price     float64  `json:"price" validate:"gte=0"`
	Status    string   `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,max=100"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	return model.Room{
		ID:        uuid.NewString(),
		Number:    c.Number,
		Type:      c.Type,
		Price:     c.Price,
		Status:    status,
		Amenities: pq.StringArray(c.Amenities),
		Capacity:  c.Capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Number    string   `db:"number" json:"number" validate:"omitempty,max=50"`
	Type      string   `db:"type" json:"type" validate:"omitempty,oneof=single double suite deluxe"`
	Price     *float64 `db:"price" json:"price" validate:"omitempty,gte=0"`
	Status    string   `db:"status" json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	Amenities []string `db:"amenities" json:"amenities" validate:"omitempty,dive,max=100"`
	Capacity  *int     `db:"capacity" json:"capacity" validate:"omitempty,min=1"`
}

// IsEmpty reports whether no updatable field was submitted. The struct holds
// slices so it cannot be compared directly.
func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.Number == "" && u.Type == "" && u.Price == nil &&
		u.Status == "" && u.Amenities == nil && u.Capacity == nil
}

type RoomResponse struct {
	ID        string   `json:"id"`
	Number    string   `json:"number"`
	Type      string   `json:"type"`
	Price     float64  `json:"price"`
	Status    string   `json:"status"`
	Amenities []string `json:"amenities"`
	Capacity  int      `json:"capacity"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Type = model.Type
	r.Price = model.Price
	r.Status = model.Status
	r.Amenities = model.Amenities
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
