package model

import "github.com/lib/pq"

type Doctor struct {
	Base
	Name         string         `db:"name" json:"name"`
	Specialty    string         `db:"specialty" json:"specialty"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone,omitempty"`
	PasswordHash string         `db:"password_hash" json:"-"`
	// AvailableTimes is the advertised working slots shown in search results.
	// Booking always runs against the shared slot catalog.
	AvailableTimes pq.StringArray `db:"available_times" json:"available_times"`
}

type CreateDoctorRequest struct {
	Name           string   `json:"name" binding:"required"`
	Specialty      string   `json:"specialty" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password" binding:"required,min=8"`
	AvailableTimes []string `json:"available_times" binding:"omitempty,dive,timeslot"`
}

type UpdateDoctorRequest struct {
	Name           *string  `json:"name"`
	Specialty      *string  `json:"specialty"`
	Phone          *string  `json:"phone"`
	AvailableTimes []string `json:"available_times" binding:"omitempty,dive,timeslot"`
}

// DoctorFilter holds whichever search criteria the caller supplied. Empty
// fields are ignored; Period is "am" or "pm".
type DoctorFilter struct {
	Name      string
	Specialty string
	Period    string
}
