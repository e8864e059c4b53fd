package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusPlanning is the default status assigned when a project is created without one.
const StatusPlanning = "planning"

type Project struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	WebsiteURL  string     `json:"websiteUrl"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
