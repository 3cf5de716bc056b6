package model

import "strings"

// VehicleNumber is a registration plate offered for sale.
type VehicleNumber struct {
	ID          int64  `json:"id"`
	PlateNumber string `json:"plate_number" validate:"required,max=20"`
	// StateCode is the issuing region prefix, e.g. "MH".
	StateCode string `json:"state_code,omitempty" validate:"max=4"`
	Listing
	IsVIP bool `json:"is_vip"`
}

// NewVehicleNumber returns a vehicle number with default flags.
func NewVehicleNumber() VehicleNumber {
	return VehicleNumber{Listing: newListing()}
}

// VehicleNumberInput is a partial vehicle number.
type VehicleNumberInput struct {
	PlateNumber *string `json:"plate_number"`
	StateCode   *string `json:"state_code"`
	ListingInput
	IsVIP *bool `json:"is_vip"`
}

// Apply copies the set fields of in onto v. Plates are stored upper-case.
func (in VehicleNumberInput) Apply(v *VehicleNumber) {
	if in.PlateNumber != nil {
		v.PlateNumber = strings.ToUpper(strings.TrimSpace(*in.PlateNumber))
	}
	if in.StateCode != nil {
		v.StateCode = strings.ToUpper(strings.TrimSpace(*in.StateCode))
	}
	in.ListingInput.apply(&v.Listing)
	setBool(&v.IsVIP, in.IsVIP)
}
