package model

type Patient struct {
	Base
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone"`
	Address      string `db:"address" json:"address,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required,min=8"`
}
