package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is the membership record as far as this service is concerned.
// The wider roster (contact details, chapter, dues) lives in the main
// application; only the photo reference is owned here.
type Member struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	MembershipID string     `json:"membership_id" db:"membership_id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PhotoID      string     `json:"photo_id" db:"photo_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// PhotoRef is the narrow projection the photo subsystem works with.
type PhotoRef struct {
	MemberID     uuid.UUID `json:"member_id" db:"id"`
	MembershipID string    `json:"membership_id" db:"membership_id"`
	PhotoID      string    `json:"photo_id" db:"photo_id"`
}

// SetPhotoInput is the admin override payload: a pre-normalized
// filename assigned directly, bypassing resolution.
type SetPhotoInput struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

// UnresolvedRef is a member whose photo reference could not be repaired
// by the reconciler. The reference is left untouched.
type UnresolvedRef struct {
	MemberID     uuid.UUID `json:"member_id"`
	MembershipID string    `json:"membership_id"`
	PhotoID      string    `json:"photo_id"`
}

type ReconcileReport struct {
	Checked      int             `json:"checked"`
	Repaired     int             `json:"repaired"`
	Deduplicated int             `json:"deduplicated"`
	Unresolved   []UnresolvedRef `json:"unresolved"`
}

type OrphanReport struct {
	Removed int `json:"removed"`
	Kept    int `json:"kept"`
}
