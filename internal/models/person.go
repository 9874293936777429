package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	PersonStatusNotConnected = "Not Connected"
	PersonStatusConnected    = "Connected"
)

type Person struct {
	ID             string `gorm:"column:id;type:uuid;primaryKey" json:"person_id"`
	JobID          string `gorm:"column:job_id;type:uuid;index;uniqueIndex:idx_people_name_job" json:"job_id"`
	Name           string `gorm:"column:name;type:varchar(255);uniqueIndex:idx_people_name_job" json:"name"`
	Headline       string `gorm:"column:headline;type:varchar(500)" json:"headline"`
	About          string `gorm:"column:about;type:text" json:"about"`
	CurrentCompany string `gorm:"column:current_company;type:varchar(255)" json:"current_company"`
	CurrentTitle   string `gorm:"column:current_title;type:varchar(255)" json:"current_job_title"`
	Tenure         string `gorm:"column:tenure;type:varchar(100)" json:"duration_in_current_company"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	PreviousExperiences datatypes.JSON `gorm:"column:previous_experiences;type:jsonb" json:"previous_experiences"`
	Education           datatypes.JSON `gorm:"column:education;type:jsonb" json:"education"`
	AdditionalInfo      datatypes.JSON `gorm:"column:additional_info;type:jsonb" json:"additional_info"`

	Status    string    `gorm:"column:status;type:varchar(100);default:'Not Connected'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Person) TableName() string { return "people" }
