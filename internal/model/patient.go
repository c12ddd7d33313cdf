package model

import "strings"

type Patient struct {
	Base
	FullName string `db:"full_name" json:"full_name"`
	Phone    string `db:"phone_e164" json:"phone_e164"`
	Timezone string `db:"tz" json:"tz"`
	Active   bool   `db:"active" json:"active"`
}

// FirstName returns the leading token of the full name, used for
// template substitution.
func (p *Patient) FirstName() string {
	if fields := strings.Fields(p.FullName); len(fields) > 0 {
		return fields[0]
	}
	return p.FullName
}

type CreatePatientRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone_e164" validate:"required,e164"`
	Timezone string `json:"tz" validate:"required"`
}
