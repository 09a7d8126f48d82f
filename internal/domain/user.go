package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row owned by the identity collaborator. The core only
// reads the premium flag and the id; rows are provisioned upstream on first
// successful token verification and never deleted here.
type User struct {
	ID        uuid.UUID
	Email     string
	IsPremium bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
