package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type Timestamp struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ensureID fills a nil primary key before insert so the schema does not depend
// on database-side uuid generation.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
