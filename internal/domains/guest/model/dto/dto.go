package dto

import (
	"strings"

	"github.com/google/uuid"

	"hotelier/internal/domains/guest/model"
	"hotelier/shared"
	gDto "hotelier/shared/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

type Address struct {
	Street  string `json:"street" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	Country string `json:"country" validate:"omitempty,max=100"`
	ZipCode string `json:"zip_code" validate:"omitempty,max=20"`
}

type IDProof struct {
	Type   string `json:"type" validate:"omitempty,oneof=passport driver-license national-id"`
	Number string `json:"number" validate:"omitempty,max=100"`
}

type CreateGuestRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   string  `json:"phone" validate:"required,max=50"`
	Address Address `json:"address" validate:"omitempty"`
	IDProof IDProof `json:"id_proof" validate:"omitempty"`
}

// ToModel lowercases the email so the uniqueness constraint is
// case-insensitive.
func (c *CreateGuestRequest) ToModel(user string) model.Guest {
	return model.Guest{
		ID:             uuid.NewString(),
		Name:           c.Name,
		Email:          strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:          c.Phone,
		AddressStreet:  c.Address.Street,
		AddressCity:    c.Address.City,
		AddressState:   c.Address.State,
		AddressCountry: c.Address.Country,
		AddressZipCode: c.Address.ZipCode,
		IDProofType:    c.IDProof.Type,
		IDProofNumber:  c.IDProof.Number,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateGuestRequest struct {
	Name           string `db:"name" json:"name" validate:"omitempty,max=255"`
	Email          string `db:"email" json:"email" validate:"omitempty,email,max=255"`
	Phone          string `db:"phone" json:"phone" validate:"omitempty,max=50"`
	AddressStreet  string `db:"address_street" json:"address_street" validate:"omitempty,max=255"`
	AddressCity    string `db:"address_city" json:"address_city" validate:"omitempty,max=100"`
	AddressState   string `db:"address_state" json:"address_state" validate:"omitempty,max=100"`
	AddressCountry string `db:"address_country" json:"address_country" validate:"omitempty,max=100"`
	AddressZipCode string `db:"address_zip_code" json:"address_zip_code" validate:"omitempty,max=20"`
	IDProofType    string `db:"id_proof_type" json:"id_proof_type" validate:"omitempty,oneof=passport driver-license national-id"`
	IDProofNumber  string `db:"id_proof_number" json:"id_proof_number" validate:"omitempty,max=100"`
}

type GuestResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
	IDProof IDProof `json:"id_proof"`
	gDto.Metadata
}

func (r *GuestResponse) FromModel(model model.Guest) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = Address{
		Street:  model.AddressStreet,
		City:    model.AddressCity,
		State:   model.AddressState,
		Country: model.AddressCountry,
		ZipCode: model.AddressZipCode,
	}
	r.IDProof = IDProof{
		Type:   model.IDProofType,
		Number: model.IDProofNumber,
	}
	r.Metadata.FromModel(model.Metadata)
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		r.Guests[i].FromModel(mod)
	}
}
