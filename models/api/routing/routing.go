package routingapimodels

import (
	"time"

	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
)

type ResolveRequest struct {
	TemplateID  string `json:"template_id"`
	SubmitterID string `json:"submitter_id"`
}

func (r ResolveRequest) Validate() error {
	if r.TemplateID == "" {
		return errors.New("не указан шаблон этапа")
	}
	if r.SubmitterID == "" {
		return errors.New("не указан автор заявки")
	}
	return nil
}

type AssigneeRequest struct {
	ResolveRequest
	CheckAvailability  bool `json:"check_availability"`
	ConsiderDelegation bool `json:"consider_delegation"`
}

type CreateStepsRequest struct {
	ResolveRequest
	RequestID string `json:"request_id"`
}

func (r CreateStepsRequest) Validate() error {
	if r.RequestID == "" {
		return errors.New("не указана заявка")
	}
	return r.ResolveRequest.Validate()
}

type UserView struct {
	ID           string          `json:"id"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	DepartmentID string          `json:"department_id,omitempty"`
	Role         models.UserRole `json:"role,omitempty"`
}

func UserConvert(rec *dbmodels.User) *UserView {
	if rec == nil {
		return nil
	}
	return &UserView{
		ID:           rec.ID,
		FullName:     rec.GetFullName(),
		Email:        rec.Email,
		DepartmentID: rec.DepartmentID,
		Role:         rec.Role,
	}
}

func UserListConvert(list []dbmodels.User) []UserView {
	result := make([]UserView, 0, len(list))
	for idx := range list {
		result = append(result, *UserConvert(&list[idx]))
	}
	return result
}

type AssignmentView struct {
	PrimaryID    string `json:"primary_id,omitempty"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	SubstituteID string `json:"substitute_id,omitempty"`
	DelegateID   string `json:"delegate_id,omitempty"`
	AutoApprove  bool   `json:"auto_approve"` // согласующий не определён, этап пропускается
}

type GroupSatisfiedView struct {
	Satisfied bool `json:"satisfied"`
}

type ShouldEscalateView struct {
	ShouldEscalate bool `json:"should_escalate"`
}

type StepView struct {
	ID                 string            `json:"id"`
	RequestID          string            `json:"request_id"`
	StepTemplateID     string            `json:"step_template_id"`
	StepOrder          int               `json:"step_order"`
	AssignedApproverID string            `json:"assigned_approver_id"`
	Status             models.StepStatus `json:"status"`
	StatusName         string            `json:"status_name"`
	CreatedAt          time.Time         `json:"created_at"`
	EscalatedAt        *time.Time        `json:"escalated_at,omitempty"`
}

func StepConvert(rec dbmodels.StepInstance) StepView {
	return StepView{
		ID:                 rec.ID,
		RequestID:          rec.RequestID,
		StepTemplateID:     rec.StepTemplateID,
		StepOrder:          rec.StepOrder,
		AssignedApproverID: rec.AssignedApproverID,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		CreatedAt:          rec.CreatedAt,
		EscalatedAt:        rec.EscalatedAt,
	}
}

type DelegationCreate struct {
	FromUserID string     `json:"from_user_id"` // по умолчанию текущий пользователь
	ToUserID   string     `json:"to_user_id"`
	Until      *time.Time `json:"until"`
	Reason     string     `json:"reason"`
}

func (r DelegationCreate) Validate() error {
	if r.ToUserID == "" {
		return errors.New("не указан сотрудник, получающий полномочия")
	}
	if len(r.Reason) > 1000 {
		return errors.New("слишком длинное основание делегирования")
	}
	return nil
}

type DelegationView struct {
	ID         string     `json:"id"`
	FromUserID string     `json:"from_user_id"`
	ToUserID   string     `json:"to_user_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	IsActive   bool       `json:"is_active"`
	Reason     string     `json:"reason,omitempty"`
}

func DelegationConvert(rec dbmodels.ApprovalDelegation) DelegationView {
	return DelegationView{
		ID:         rec.ID,
		FromUserID: rec.FromUserID,
		ToUserID:   rec.ToUserID,
		StartDate:  rec.StartDate,
		EndDate:    rec.EndDate,
		IsActive:   rec.IsActive,
		Reason:     rec.Reason,
	}
}

func DelegationListConvert(list []dbmodels.ApprovalDelegation) []DelegationView {
	result := make([]DelegationView, 0, len(list))
	for _, rec := range list {
		result = append(result, DelegationConvert(rec))
	}
	return result
}

type DelegationsView struct {
	From []DelegationView `json:"from"`
	To   []DelegationView `json:"to"`
}

type RevokeView struct {
	Revoked bool `json:"revoked"`
}
