package approverresolver

import (
	"approval-routing-backend/db"
	directorystore "approval-routing-backend/lib/directory/store"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider определяет согласующего этапа по политике шаблона.
// Отсутствие согласующего (nil) не ошибка: этап пропускается и считается согласованным.
type Provider interface {
	Resolve(tmpl dbmodels.StepTemplate, submitter dbmodels.User) (*dbmodels.User, error)
	ResolveMany(tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.User, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(directorystore.NewInstance(db.DB))
}

func NewInstance(directory directorystore.Provider) Provider {
	return impl{
		directory: directory,
	}
}

type impl struct {
	directory directorystore.Provider
}

func (i impl) GetLogger(tmpl dbmodels.StepTemplate, submitter dbmodels.User) *log.Entry {
	return log.
		WithField("step_template_id", tmpl.ID).
		WithField("approver_type", tmpl.ApproverType).
		WithField("submitter_id", submitter.ID)
}

func (i impl) Resolve(tmpl dbmodels.StepTemplate, submitter dbmodels.User) (*dbmodels.User, error) {
	var (
		approver *dbmodels.User
		err      error
	)
	switch tmpl.ApproverType {
	case models.ApproverDirectSupervisor:
		approver, err = i.departmentOfficial(submitter, func(dept dbmodels.Department) string {
			return dept.HeadOfDepartmentID
		})
	case models.ApproverDepartmentDirector:
		approver, err = i.departmentOfficial(submitter, func(dept dbmodels.Department) string {
			return dept.DirectorID
		})
	case models.ApproverSpecificUser:
		approver, err = i.directory.GetUserByID(tmpl.SpecificUserID)
	case models.ApproverUserGroup:
		approver, err = i.firstGroupMember(tmpl.ApproverGroupID)
	case models.ApproverSpecificDepartment:
		approver, err = i.departmentHead(tmpl.SpecificDepartmentID)
	case models.ApproverSubmitter:
		// единственная политика, где согласование самим автором допустимо
		approver = &submitter
	default:
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка определения согласующего, тип %v", tmpl.ApproverType)
	}
	if approver == nil {
		i.GetLogger(tmpl, submitter).Debug("Согласующий не определён, этап будет пропущен")
	}
	return approver, nil
}

func (i impl) ResolveMany(tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.User, error) {
	var (
		candidates []dbmodels.User
		err        error
	)
	switch tmpl.ApproverType {
	case models.ApproverUserGroup:
		candidates, err = i.directory.GetUsersInGroup(tmpl.ApproverGroupID)
	case models.ApproverSpecificDepartment:
		candidates, err = i.departmentHeadWithSubstitute(tmpl.SpecificDepartmentID)
	case models.ApproverRole:
		candidates, err = i.usersWithRole(tmpl.ApproverRoleTarget)
	default:
		var approver *dbmodels.User
		approver, err = i.Resolve(tmpl, submitter)
		if approver != nil {
			candidates = []dbmodels.User{*approver}
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка определения согласующих параллельного этапа, тип %v", tmpl.ApproverType)
	}
	return excludeSubmitterAndDuplicates(candidates, submitter.ID), nil
}

// departmentOfficial должностное лицо подразделения автора; согласовать собственную заявку нельзя
func (i impl) departmentOfficial(submitter dbmodels.User, pick func(dept dbmodels.Department) string) (*dbmodels.User, error) {
	if submitter.DepartmentID == "" {
		return nil, nil
	}
	dept, err := i.directory.GetDepartmentByID(submitter.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, nil
	}
	officialID := pick(*dept)
	if officialID == "" || officialID == submitter.ID {
		return nil, nil
	}
	return i.directory.GetUserByID(officialID)
}

func (i impl) departmentHead(departmentID string) (*dbmodels.User, error) {
	dept, err := i.directory.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil || dept.HeadOfDepartmentID == "" {
		return nil, nil
	}
	return i.directory.GetUserByID(dept.HeadOfDepartmentID)
}

func (i impl) departmentHeadWithSubstitute(departmentID string) ([]dbmodels.User, error) {
	dept, err := i.directory.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, nil
	}
	result := []dbmodels.User{}
	for _, userID := range []string{dept.HeadOfDepartmentID, dept.HeadOfDepartmentSubstituteID} {
		if userID == "" {
			continue
		}
		user, err := i.directory.GetUserByID(userID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			result = append(result, *user)
		}
	}
	return result, nil
}

// firstGroupMember первый участник группы; распределения нагрузки нет
func (i impl) firstGroupMember(groupID string) (*dbmodels.User, error) {
	members, err := i.directory.GetUsersInGroup(groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}

func (i impl) usersWithRole(role models.UserRole) ([]dbmodels.User, error) {
	if role == "" {
		return nil, nil
	}
	users, err := i.directory.GetAllUsers()
	if err != nil {
		return nil, err
	}
	result := []dbmodels.User{}
	for _, user := range users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

func excludeSubmitterAndDuplicates(candidates []dbmodels.User, submitterID string) []dbmodels.User {
	seen := map[string]bool{submitterID: true}
	result := make([]dbmodels.User, 0, len(candidates))
	for _, user := range candidates {
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		result = append(result, user)
	}
	return result
}
