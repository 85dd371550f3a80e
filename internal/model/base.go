package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and bookkeeping columns shared by all
// persisted entities. IDs are assigned by the repository on insert.
type Base struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
