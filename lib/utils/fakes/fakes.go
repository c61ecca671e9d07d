// Package fakes in-memory реализации хранилищ для тестов маршрутизации согласований
package fakes

import (
	"sort"
	"sync"
	"time"

	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrStoreUnavailable = errors.New("store unavailable")

// Directory справочник оргструктуры
type Directory struct {
	Users       map[string]dbmodels.User
	Departments map[string]dbmodels.Department
	Groups      map[string][]string
	UserOrder   []string
	Err         error
}

func NewDirectory() *Directory {
	return &Directory{
		Users:       map[string]dbmodels.User{},
		Departments: map[string]dbmodels.Department{},
		Groups:      map[string][]string{},
	}
}

func (d *Directory) AddUser(id, departmentID string, role models.UserRole) dbmodels.User {
	rec := dbmodels.User{
		BaseModel:    dbmodels.BaseModel{ID: id},
		FirstName:    id,
		LastName:     "Test",
		Email:        id + "@example.com",
		IsActive:     true,
		DepartmentID: departmentID,
		Role:         role,
	}
	d.Users[id] = rec
	d.UserOrder = append(d.UserOrder, id)
	return rec
}

func (d *Directory) AddDepartment(rec dbmodels.Department) {
	d.Departments[rec.ID] = rec
}

func (d *Directory) SetGroup(groupID string, userIDs ...string) {
	d.Groups[groupID] = userIDs
}

func (d *Directory) GetUserByID(userID string) (*dbmodels.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	rec, ok := d.Users[userID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (d *Directory) GetDepartmentByID(departmentID string) (*dbmodels.Department, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	rec, ok := d.Departments[departmentID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (d *Directory) GetUsersInGroup(groupID string) ([]dbmodels.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	result := []dbmodels.User{}
	for _, userID := range d.Groups[groupID] {
		if rec, ok := d.Users[userID]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (d *Directory) GetAllUsers() ([]dbmodels.User, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	result := make([]dbmodels.User, 0, len(d.UserOrder))
	for _, userID := range d.UserOrder {
		if rec, ok := d.Users[userID]; ok && rec.IsActive {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Vacations хранилище отпусков
type Vacations struct {
	list []dbmodels.Vacation
}

func NewVacations() *Vacations {
	return &Vacations{}
}

// AddAway отмечает сотрудника в утверждённом отпуске в указанный период
func (v *Vacations) AddAway(userID string, from, to time.Time, substituteID string) {
	_, _ = v.Create(dbmodels.Vacation{
		UserID:           userID,
		StartDate:        from,
		EndDate:          to,
		SubstituteUserID: substituteID,
		Status:           models.VacationStatusApproved,
	})
}

func (v *Vacations) Create(rec dbmodels.Vacation) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	v.list = append(v.list, rec)
	return rec.ID, nil
}

func (v *Vacations) ListCovering(userID string, date time.Time) ([]dbmodels.Vacation, error) {
	result := []dbmodels.Vacation{}
	for _, rec := range v.list {
		if rec.UserID == userID && rec.Status == models.VacationStatusApproved && rec.Covers(date) {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].StartDate.After(result[b].StartDate)
	})
	return result, nil
}

// StepTemplates хранилище шаблонов этапов
type StepTemplates struct {
	Items map[string]dbmodels.StepTemplate
}

func NewStepTemplates(list ...dbmodels.StepTemplate) *StepTemplates {
	s := &StepTemplates{Items: map[string]dbmodels.StepTemplate{}}
	for _, rec := range list {
		_, _ = s.Create(rec)
	}
	return s
}

func (s *StepTemplates) Create(rec dbmodels.StepTemplate) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.Items[rec.ID] = rec
	return rec.ID, nil
}

func (s *StepTemplates) GetByID(id string) (*dbmodels.StepTemplate, error) {
	rec, ok := s.Items[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *StepTemplates) ListByRequestTemplate(requestTemplateID string) ([]dbmodels.StepTemplate, error) {
	result := []dbmodels.StepTemplate{}
	for _, rec := range s.Items {
		if rec.RequestTemplateID == requestTemplateID {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].StepOrder < result[b].StepOrder
	})
	return result, nil
}

// StepInstances хранилище этапов заявок, шаблоны подтягиваются из StepTemplates как Preload
type StepInstances struct {
	mu        sync.Mutex
	Templates *StepTemplates
	Items     map[string]dbmodels.StepInstance
	order     []string
	UpdateErr error
}

func NewStepInstances(templates *StepTemplates) *StepInstances {
	return &StepInstances{
		Templates: templates,
		Items:     map[string]dbmodels.StepInstance{},
	}
}

func (s *StepInstances) Create(rec dbmodels.StepInstance) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.StepTemplate = nil
	s.Items[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return rec.ID, nil
}

func (s *StepInstances) preload(rec dbmodels.StepInstance) dbmodels.StepInstance {
	if s.Templates != nil {
		if tmpl, ok := s.Templates.Items[rec.StepTemplateID]; ok {
			rec.StepTemplate = &tmpl
		}
	}
	return rec
}

func (s *StepInstances) GetByID(id string) (*dbmodels.StepInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.Items[id]
	if !ok {
		return nil, nil
	}
	rec = s.preload(rec)
	return &rec, nil
}

func (s *StepInstances) Update(id string, updMap map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	rec, ok := s.Items[id]
	if !ok {
		return nil
	}
	for field, value := range updMap {
		switch field {
		case "assigned_approver_id":
			rec.AssignedApproverID = value.(string)
		case "escalated_at":
			escalatedAt := value.(time.Time)
			rec.EscalatedAt = &escalatedAt
		case "status":
			rec.Status = value.(models.StepStatus)
		case "decided_at":
			decidedAt := value.(time.Time)
			rec.DecidedAt = &decidedAt
		case "comment":
			rec.Comment = value.(string)
		}
	}
	s.Items[id] = rec
	return nil
}

func (s *StepInstances) filter(match func(rec dbmodels.StepInstance) bool) []dbmodels.StepInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []dbmodels.StepInstance{}
	for _, id := range s.order {
		rec := s.preload(s.Items[id])
		if match(rec) {
			result = append(result, rec)
		}
	}
	return result
}

func (s *StepInstances) ListByRequest(requestID string) ([]dbmodels.StepInstance, error) {
	return s.filter(func(rec dbmodels.StepInstance) bool {
		return rec.RequestID == requestID
	}), nil
}

func (s *StepInstances) ListByParallelGroup(requestID, parallelGroupID string) ([]dbmodels.StepInstance, error) {
	return s.filter(func(rec dbmodels.StepInstance) bool {
		return rec.RequestID == requestID && rec.StepTemplate != nil && rec.StepTemplate.ParallelGroupID == parallelGroupID
	}), nil
}

func (s *StepInstances) ListPendingWithEscalation() ([]dbmodels.StepInstance, error) {
	return s.filter(func(rec dbmodels.StepInstance) bool {
		return rec.IsPending() && rec.StepTemplate != nil && rec.StepTemplate.HasEscalation()
	}), nil
}

// Delegations хранилище делегирований
type Delegations struct {
	Items map[string]dbmodels.ApprovalDelegation
	order []string
}

func NewDelegations() *Delegations {
	return &Delegations{Items: map[string]dbmodels.ApprovalDelegation{}}
}

func (d *Delegations) Create(rec dbmodels.ApprovalDelegation) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	d.Items[rec.ID] = rec
	d.order = append(d.order, rec.ID)
	return rec.ID, nil
}

func (d *Delegations) GetByID(id string) (*dbmodels.ApprovalDelegation, error) {
	rec, ok := d.Items[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (d *Delegations) Update(id string, updMap map[string]interface{}) error {
	rec, ok := d.Items[id]
	if !ok {
		return nil
	}
	if isActive, ok := updMap["is_active"]; ok {
		rec.IsActive = isActive.(bool)
	}
	d.Items[id] = rec
	return nil
}

func (d *Delegations) list(match func(rec dbmodels.ApprovalDelegation) bool, at time.Time) []dbmodels.ApprovalDelegation {
	result := []dbmodels.ApprovalDelegation{}
	for _, id := range d.order {
		rec := d.Items[id]
		if match(rec) && rec.InEffect(at) {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		if !result[a].StartDate.Equal(result[b].StartDate) {
			return result[a].StartDate.After(result[b].StartDate)
		}
		return result[a].CreatedAt.After(result[b].CreatedAt)
	})
	return result
}

func (d *Delegations) ListInEffectFrom(fromUserID string, at time.Time) ([]dbmodels.ApprovalDelegation, error) {
	return d.list(func(rec dbmodels.ApprovalDelegation) bool { return rec.FromUserID == fromUserID }, at), nil
}

func (d *Delegations) ListInEffectTo(toUserID string, at time.Time) ([]dbmodels.ApprovalDelegation, error) {
	return d.list(func(rec dbmodels.ApprovalDelegation) bool { return rec.ToUserID == toUserID }, at), nil
}

// Notifier запоминает отправленные уведомления
type Notifier struct {
	mu          sync.Mutex
	Escalations []string
	Delegations []string
}

func (n *Notifier) StepEscalated(step dbmodels.StepInstance, escalationUser dbmodels.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Escalations = append(n.Escalations, step.ID+":"+escalationUser.ID)
}

func (n *Notifier) DelegationGranted(rec dbmodels.ApprovalDelegation, from, to dbmodels.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Delegations = append(n.Delegations, from.ID+"->"+to.ID)
}
