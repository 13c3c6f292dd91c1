package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vote struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	PointsUsed  int       `gorm:"not null" json:"points_used"`

	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Candidate *Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Timestamp
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
