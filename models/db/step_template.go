package dbmodels

import (
	"time"

	apperrors "approval-routing-backend/lib/utils/app-errors"
	"approval-routing-backend/models"
)

type RequestTemplate struct {
	BaseModel
	Name        string             `gorm:"type:varchar(255)"`
	RequestType models.RequestType `gorm:"type:varchar(30)"`
	Steps       []StepTemplate     `gorm:"foreignKey:RequestTemplateID"`
}

type StepTemplate struct {
	BaseModel
	RequestTemplateID    string              `gorm:"type:varchar(36);index"`
	StepOrder            int                 `gorm:"index"`
	ApproverType         models.ApproverType `gorm:"type:varchar(30)"`
	ApproverRoleTarget   models.UserRole     `gorm:"type:varchar(50)"`
	SpecificUserID       string              `gorm:"type:varchar(36)"`
	SpecificDepartmentID string              `gorm:"type:varchar(36)"`
	ApproverGroupID      string              `gorm:"type:varchar(36)"`
	IsParallel           bool
	ParallelGroupID      string `gorm:"type:varchar(64);index"`
	MinimumApprovals     int    `gorm:"default:1"`
	EscalationTimeout    *time.Duration
	EscalationUserID     string `gorm:"type:varchar(36)"`
}

// HasEscalation эскалация настроена, только если указаны и таймаут, и сотрудник
func (s StepTemplate) HasEscalation() bool {
	return s.EscalationTimeout != nil && *s.EscalationTimeout > 0 && s.EscalationUserID != ""
}

func (s StepTemplate) Validate() error {
	if !s.ApproverType.IsKnown() {
		return apperrors.Validation("неизвестный тип согласующего: %q", s.ApproverType)
	}
	populated := map[string]bool{
		"approver_role_target":   s.ApproverRoleTarget != "",
		"specific_user_id":       s.SpecificUserID != "",
		"specific_department_id": s.SpecificDepartmentID != "",
		"approver_group_id":      s.ApproverGroupID != "",
	}
	expected := ""
	switch s.ApproverType {
	case models.ApproverSpecificUser:
		expected = "specific_user_id"
	case models.ApproverSpecificDepartment:
		expected = "specific_department_id"
	case models.ApproverUserGroup:
		expected = "approver_group_id"
	case models.ApproverRole:
		expected = "approver_role_target"
	}
	for field, isSet := range populated {
		if field == expected && !isSet {
			return apperrors.Validation("для типа %q не заполнен параметр %s", s.ApproverType.ToHuman(), field)
		}
		if field != expected && isSet {
			return apperrors.Validation("для типа %q параметр %s должен быть пустым", s.ApproverType.ToHuman(), field)
		}
	}
	if s.MinimumApprovals < 1 {
		return apperrors.Validation("минимальное количество согласований должно быть не меньше 1")
	}
	if s.IsParallel && s.ParallelGroupID == "" {
		return apperrors.Validation("для параллельного этапа не указан идентификатор группы")
	}
	if s.EscalationTimeout != nil && *s.EscalationTimeout <= 0 {
		return apperrors.Validation("таймаут эскалации должен быть положительным")
	}
	return nil
}
