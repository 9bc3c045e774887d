package model

import "hotelier/shared/model"

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID    = "id"
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

const (
	IDProofPassport      = "passport"
	IDProofDriverLicense = "driver-license"
	IDProofNationalID    = "national-id"
)

type Guest struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	AddressStreet  string `db:"address_street"`
	AddressCity    string `db:"address_city"`
	AddressState   string `db:"address_state"`
	AddressCountry string `db:"address_country"`
	AddressZipCode string `db:"address_zip_code"`
	IDProofType    string `db:"id_proof_type"`
	IDProofNumber  string `db:"id_proof_number"`
	model.Metadata
}
