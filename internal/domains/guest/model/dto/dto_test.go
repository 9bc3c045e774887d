package dto_test

import (
	"testing"

	"hotelier/internal/domains/guest/model"
	"hotelier/internal/domains/guest/model/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateGuestRequest_ToModel(t *testing.T) {
	req := dto.CreateGuestRequest{
		Name:  "John Smith",
		Email: " John.Smith@Example.com ",
		Phone: "+1234567890",
		Address: dto.Address{
			Street:  "123 Main St",
			City:    "New York",
			State:   "NY",
			Country: "USA",
			ZipCode: "10001",
		},
		IDProof: dto.IDProof{
			Type:   model.IDProofPassport,
			Number: "P12345678",
		},
	}

	user := "test-user-id"
	guestModel := req.ToModel(user)

	assert.NotEmpty(t, guestModel.ID, "expected ID to be generated")
	assert.Equal(t, req.Name, guestModel.Name)
	assert.Equal(t, "john.smith@example.com", guestModel.Email, "expected email to be normalized")
	assert.Equal(t, req.Phone, guestModel.Phone)
	assert.Equal(t, req.Address.Street, guestModel.AddressStreet)
	assert.Equal(t, req.Address.City, guestModel.AddressCity)
	assert.Equal(t, req.Address.State, guestModel.AddressState)
	assert.Equal(t, req.Address.Country, guestModel.AddressCountry)
	assert.Equal(t, req.Address.ZipCode, guestModel.AddressZipCode)
	assert.Equal(t, req.IDProof.Type, guestModel.IDProofType)
	assert.Equal(t, req.IDProof.Number, guestModel.IDProofNumber)
	assert.Equal(t, user, guestModel.CreatedBy)
	assert.Equal(t, user, guestModel.ModifiedBy)
	assert.False(t, guestModel.CreatedAt.IsZero(), "expected CreatedAt to be set")
	assert.False(t, guestModel.ModifiedAt.IsZero(), "expected ModifiedAt to be set")
}

func TestGuestResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	guestModel := model.Guest{
		ID:             "test-id",
		Name:           "Emma Johnson",
		Email:          "emma.j@example.com",
		Phone:          "+1987654321",
		AddressStreet:  "456 Oak Ave",
		AddressCity:    "Los Angeles",
		AddressState:   "CA",
		AddressCountry: "USA",
		AddressZipCode: "90001",
		IDProofType:    model.IDProofDriverLicense,
		IDProofNumber:  "DL98765432",
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}

	var response dto.GuestResponse
	response.FromModel(guestModel)

	assert.Equal(t, guestModel.ID, response.ID)
	assert.Equal(t, guestModel.Name, response.Name)
	assert.Equal(t, guestModel.Email, response.Email)
	assert.Equal(t, guestModel.Phone, response.Phone)
	assert.Equal(t, dto.Address{
		Street:  "456 Oak Ave",
		City:    "Los Angeles",
		State:   "CA",
		Country: "USA",
		ZipCode: "90001",
	}, response.Address, "expected address to be reassembled")
	assert.Equal(t, dto.IDProof{
		Type:   model.IDProofDriverLicense,
		Number: "DL98765432",
	}, response.IDProof, "expected id proof to be reassembled")
	assert.Equal(t, guestModel.CreatedBy, response.CreatedBy)
}

func TestGetGuestsResponse_FromModels(t *testing.T) {
	models := []model.Guest{
		{ID: "test-id-1", Name: "John Smith", Email: "john.smith@example.com"},
		{ID: "test-id-2", Name: "Emma Johnson", Email: "emma.j@example.com"},
	}

	var response dto.GetGuestsResponse
	response.FromModels(models, 25, 10)

	assert.Len(t, response.Guests, 2)
	assert.Equal(t, 25, response.TotalData)
	assert.Equal(t, 3, response.TotalPage)
}
