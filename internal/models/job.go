package models

import (
	"time"

	"github.com/google/uuid"
)

const JobStatusPending = "Pending"

type Job struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" json:"job_id"`
	Title           string    `gorm:"column:title;type:varchar(255)" json:"job_title"`
	CompanyName     string    `gorm:"column:company_name;type:varchar(255)" json:"company_name"`
	Location        string    `gorm:"column:location;type:varchar(255)" json:"location"`
	Description     string    `gorm:"column:description;type:text" json:"job_description"`
	ApplicationLink string    `gorm:"column:application_link;type:varchar(500)" json:"application_link"`
	CompanyWebsite  string    `gorm:"column:company_website;type:varchar(500)" json:"company_website"`
	Status          string    `gorm:"column:status;type:varchar(100);default:'Pending'" json:"status"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }

// NewID returns a time-ordered identifier so listings sort by creation.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
