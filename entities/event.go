package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

const (
	EventStatusUpcoming = "upcoming"
	EventStatusLive     = "live"
	EventStatusEnded    = "ended"
)

type Event struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:150;not null" json:"name"`
	Status        string    `gorm:"size:20;not null;default:upcoming" json:"status"` // upcoming, live, ended
	IsActive      bool      `gorm:"not null" json:"is_active"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PointsPerVote int       `gorm:"not null;default:1" json:"points_per_vote"`

	Categories []*Category `gorm:"foreignKey:EventID" json:"categories,omitempty"`
	Timestamp
}

type Category struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Name    string    `gorm:"size:150;not null" json:"name"`

	Event      *Event       `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Candidates []*Candidate `gorm:"foreignKey:CategoryID" json:"candidates,omitempty"`
	Timestamp
}

type Candidate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Name       string    `gorm:"size:150;not null" json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Timestamp
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
