package dbmodels

import (
	"time"

	"approval-routing-backend/models"
)

type StepInstance struct {
	BaseModel
	RequestID          string        `gorm:"type:varchar(36);index"`
	StepTemplateID     string        `gorm:"type:varchar(36);index"`
	StepTemplate       *StepTemplate `gorm:"foreignKey:StepTemplateID"`
	StepOrder          int
	AssignedApproverID string            `gorm:"type:varchar(36);index"`
	AssignedApprover   *User             `gorm:"foreignKey:AssignedApproverID"`
	Status             models.StepStatus `gorm:"type:varchar(20);index"`
	EscalatedAt        *time.Time
	DecidedAt          *time.Time
	Comment            string
}

func (s StepInstance) IsPending() bool {
	return s.Status == models.StepStatusPending
}
