package substitutionhandler

import (
	"time"

	"approval-routing-backend/db"
	approverresolver "approval-routing-backend/lib/approver-resolver"
	directorystore "approval-routing-backend/lib/directory/store"
	vacationhandler "approval-routing-backend/lib/vacation"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// EffectiveAssignee согласующий с учётом отпусков; "" - согласующего нет, этап пропускается.
	// Если замена не найдена, возвращается отсутствующий основной согласующий
	EffectiveAssignee(tmpl dbmodels.StepTemplate, submitter dbmodels.User, checkAvailability bool) (string, error)
	// Substitute замещающий для отсутствующего сегодня согласующего, nil если замена не нужна или не найдена
	Substitute(tmpl dbmodels.StepTemplate, primary dbmodels.User) (*dbmodels.User, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(approverresolver.Instance, directorystore.NewInstance(db.DB), vacationhandler.Instance)
}

func NewInstance(resolver approverresolver.Provider, directory directorystore.Provider, vacations vacationhandler.Provider) Provider {
	return &impl{
		resolver:  resolver,
		directory: directory,
		vacations: vacations,
		now:       time.Now,
	}
}

type impl struct {
	resolver  approverresolver.Provider
	directory directorystore.Provider
	vacations vacationhandler.Provider
	now       func() time.Time
}

func (i impl) GetLogger(tmpl dbmodels.StepTemplate, primaryID string) *log.Entry {
	return log.
		WithField("step_template_id", tmpl.ID).
		WithField("approver_id", primaryID)
}

func (i impl) EffectiveAssignee(tmpl dbmodels.StepTemplate, submitter dbmodels.User, checkAvailability bool) (string, error) {
	primary, err := i.resolver.Resolve(tmpl, submitter)
	if err != nil {
		return "", err
	}
	if primary == nil {
		return "", nil
	}
	if !checkAvailability {
		return primary.ID, nil
	}
	substitute, err := i.Substitute(tmpl, *primary)
	if err != nil {
		return "", err
	}
	if substitute != nil {
		return substitute.ID, nil
	}
	return primary.ID, nil
}

func (i impl) Substitute(tmpl dbmodels.StepTemplate, primary dbmodels.User) (*dbmodels.User, error) {
	today := i.now()
	away, err := i.vacations.IsUserAway(primary.ID, today)
	if err != nil {
		return nil, err
	}
	if !away {
		return nil, nil
	}
	logger := i.GetLogger(tmpl, primary.ID)

	var substitute *dbmodels.User
	switch tmpl.ApproverType {
	case models.ApproverSpecificDepartment:
		substitute, err = i.departmentSubstitute(tmpl.SpecificDepartmentID, primary.ID)
	case models.ApproverUserGroup:
		substitute, err = i.firstAvailableGroupMember(tmpl.ApproverGroupID, primary.ID, today)
	default:
		// для руководителей замещение настраивается вручную, для остальных политик не ищется
	}
	if err != nil {
		return nil, errors.Wrap(err, "ошибка поиска замещающего согласующего")
	}
	if substitute == nil {
		logger.Info("Согласующий отсутствует, замена не найдена, этап останется за ним")
		return nil, nil
	}
	logger.WithField("substitute_id", substitute.ID).Info("Согласующий отсутствует, назначен замещающий")
	return substitute, nil
}

func (i impl) departmentSubstitute(departmentID, primaryID string) (*dbmodels.User, error) {
	dept, err := i.directory.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil || dept.HeadOfDepartmentSubstituteID == "" || dept.HeadOfDepartmentSubstituteID == primaryID {
		return nil, nil
	}
	return i.directory.GetUserByID(dept.HeadOfDepartmentSubstituteID)
}

func (i impl) firstAvailableGroupMember(groupID, primaryID string, today time.Time) (*dbmodels.User, error) {
	members, err := i.directory.GetUsersInGroup(groupID)
	if err != nil {
		return nil, err
	}
	for idx := range members {
		if members[idx].ID == primaryID {
			continue
		}
		away, err := i.vacations.IsUserAway(members[idx].ID, today)
		if err != nil {
			return nil, err
		}
		if !away {
			return &members[idx], nil
		}
	}
	return nil, nil
}
