package routinghandler

import (
	"time"

	"approval-routing-backend/db"
	approverresolver "approval-routing-backend/lib/approver-resolver"
	delegationhandler "approval-routing-backend/lib/delegation"
	directorystore "approval-routing-backend/lib/directory/store"
	escalationhandler "approval-routing-backend/lib/escalation"
	notifyhandler "approval-routing-backend/lib/notify"
	parallelquorum "approval-routing-backend/lib/parallel-quorum"
	stepinstancestore "approval-routing-backend/lib/step-instance/store"
	steptemplatestore "approval-routing-backend/lib/step-template/store"
	substitutionhandler "approval-routing-backend/lib/substitution"
	apperrors "approval-routing-backend/lib/utils/app-errors"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Provider точка входа маршрутизации согласований для обработчиков заявок
type Provider interface {
	// LoadContext шаблон этапа и автор заявки по идентификаторам
	LoadContext(templateID, submitterID string) (*dbmodels.StepTemplate, *dbmodels.User, error)
	// Assign назначение согласующего: основной -> замещение на время отпуска -> делегирование
	Assign(tmpl dbmodels.StepTemplate, submitter dbmodels.User, opt AssignOptions) (Assignment, error)
	ResolveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User) (*dbmodels.User, error)
	ResolveParallelApprovers(tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.User, error)
	EffectiveAssignee(tmpl dbmodels.StepTemplate, submitter dbmodels.User, checkAvailability bool) (string, error)
	EffectiveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User, considerDelegation bool) (*dbmodels.User, error)
	IsParallelGroupSatisfied(parallelGroupID, requestID string) (bool, error)
	ShouldEscalate(step dbmodels.StepInstance) (bool, error)
	Escalate(stepID string) (*dbmodels.StepInstance, error)
	GrantDelegation(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error)
	// GetDelegation nil, если делегирование не найдено
	GetDelegation(delegationID string) (*dbmodels.ApprovalDelegation, error)
	RevokeDelegation(delegationID string) (bool, error)
	ListDelegations(userID string) (from, to []dbmodels.ApprovalDelegation, err error)
	// CreateStepInstances создаёт этапы заявки по шаблону. Пустой список - этап согласуется автоматически
	CreateStepInstances(requestID string, tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.StepInstance, error)
	// ListOverdue ожидающие решения этапы, которые пора эскалировать
	ListOverdue() ([]dbmodels.StepInstance, error)
	GetStep(stepID string) (*dbmodels.StepInstance, error)
}

type AssignOptions struct {
	CheckAvailability  bool
	ConsiderDelegation bool
}

// Assignment результат назначения. Пустой AssigneeID - согласующего нет, этап пропускается
type Assignment struct {
	PrimaryID    string
	AssigneeID   string
	SubstituteID string
	DelegateID   string
}

func (a Assignment) IsEmpty() bool {
	return a.AssigneeID == ""
}

var Instance Provider

func NewHandler() {
	i := NewInstance(
		approverresolver.Instance,
		substitutionhandler.Instance,
		delegationhandler.Instance,
		parallelquorum.Instance,
		escalationhandler.Instance,
		directorystore.NewInstance(db.DB),
		steptemplatestore.NewInstance(db.DB),
		stepinstancestore.NewInstance(db.DB),
	)
	i.notifier = notifyhandler.Instance
	i.grantInTx = func(fromUserID, toUserID string, until *time.Time, reason string) (rec *dbmodels.ApprovalDelegation, err error) {
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			rec, err = delegationhandler.NewHandlerWithTx(tx).Grant(fromUserID, toUserID, until, reason)
			return err
		})
		return rec, err
	}
	i.escalateInTx = func(stepID string) (rec *dbmodels.StepInstance, err error) {
		err = db.DB.Transaction(func(tx *gorm.DB) error {
			rec, err = escalationhandler.NewHandlerWithTx(tx).Escalate(stepID)
			return err
		})
		return rec, err
	}
	Instance = i
}

func NewInstance(resolver approverresolver.Provider, substitution substitutionhandler.Provider,
	delegation delegationhandler.Provider, quorum parallelquorum.Provider, escalation escalationhandler.Provider,
	directory directorystore.Provider, templates steptemplatestore.Provider, steps stepinstancestore.Provider) *impl {
	return &impl{
		resolver:     resolver,
		substitution: substitution,
		delegation:   delegation,
		quorum:       quorum,
		escalation:   escalation,
		directory:    directory,
		templates:    templates,
		steps:        steps,
	}
}

type impl struct {
	resolver     approverresolver.Provider
	substitution substitutionhandler.Provider
	delegation   delegationhandler.Provider
	quorum       parallelquorum.Provider
	escalation   escalationhandler.Provider
	directory    directorystore.Provider
	templates    steptemplatestore.Provider
	steps        stepinstancestore.Provider
	// транзакционные варианты не уведомляют, уведомление уходит после фиксации
	grantInTx    func(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error)
	escalateInTx func(stepID string) (*dbmodels.StepInstance, error)
	notifier     notifyhandler.Provider
}

func (i impl) GetLogger(requestID string, tmpl dbmodels.StepTemplate) *log.Entry {
	return log.
		WithField("request_id", requestID).
		WithField("step_template_id", tmpl.ID).
		WithField("step_order", tmpl.StepOrder)
}

func (i impl) LoadContext(templateID, submitterID string) (*dbmodels.StepTemplate, *dbmodels.User, error) {
	tmpl, err := i.templates.GetByID(templateID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения шаблона этапа")
	}
	if tmpl == nil {
		return nil, nil, apperrors.NotFound("шаблон этапа", templateID)
	}
	submitter, err := i.directory.GetUserByID(submitterID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения автора заявки")
	}
	if submitter == nil {
		return nil, nil, apperrors.NotFound("сотрудник", submitterID)
	}
	return tmpl, submitter, nil
}

func (i impl) Assign(tmpl dbmodels.StepTemplate, submitter dbmodels.User, opt AssignOptions) (Assignment, error) {
	result := Assignment{}
	primary, err := i.resolvePrimary(tmpl, submitter)
	if err != nil || primary == nil {
		return result, err
	}
	result.PrimaryID = primary.ID
	result.AssigneeID = primary.ID

	assignee := *primary
	if opt.CheckAvailability {
		substitute, err := i.applySubstitution(tmpl, assignee)
		if err != nil {
			return Assignment{}, err
		}
		if substitute != nil {
			result.SubstituteID = substitute.ID
			result.AssigneeID = substitute.ID
			assignee = *substitute
		}
	}
	if opt.ConsiderDelegation {
		delegate, err := i.applyDelegation(assignee, submitter)
		if err != nil {
			return Assignment{}, err
		}
		if delegate != nil {
			result.DelegateID = delegate.ID
			result.AssigneeID = delegate.ID
		}
	}
	return result, nil
}

func (i impl) resolvePrimary(tmpl dbmodels.StepTemplate, submitter dbmodels.User) (*dbmodels.User, error) {
	return i.resolver.Resolve(tmpl, submitter)
}

func (i impl) applySubstitution(tmpl dbmodels.StepTemplate, assignee dbmodels.User) (*dbmodels.User, error) {
	return i.substitution.Substitute(tmpl, assignee)
}

func (i impl) applyDelegation(assignee, submitter dbmodels.User) (*dbmodels.User, error) {
	delegate, err := i.delegation.DelegateOf(assignee.ID)
	if err != nil || delegate == nil {
		return nil, err
	}
	if delegate.ID == submitter.ID {
		return nil, nil
	}
	return delegate, nil
}

func (i impl) ResolveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User) (*dbmodels.User, error) {
	return i.resolver.Resolve(tmpl, submitter)
}

func (i impl) ResolveParallelApprovers(tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.User, error) {
	return i.resolver.ResolveMany(tmpl, submitter)
}

func (i impl) EffectiveAssignee(tmpl dbmodels.StepTemplate, submitter dbmodels.User, checkAvailability bool) (string, error) {
	return i.substitution.EffectiveAssignee(tmpl, submitter, checkAvailability)
}

func (i impl) EffectiveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User, considerDelegation bool) (*dbmodels.User, error) {
	return i.delegation.EffectiveApprover(tmpl, submitter, considerDelegation)
}

func (i impl) IsParallelGroupSatisfied(parallelGroupID, requestID string) (bool, error) {
	return i.quorum.IsGroupSatisfied(parallelGroupID, requestID)
}

func (i impl) ShouldEscalate(step dbmodels.StepInstance) (bool, error) {
	return i.escalation.ShouldEscalate(step)
}

func (i impl) Escalate(stepID string) (*dbmodels.StepInstance, error) {
	if i.escalateInTx != nil {
		step, err := i.escalateInTx(stepID)
		if err != nil {
			return nil, err
		}
		escalationhandler.NotifyEscalated(i.notifier, step)
		return step, nil
	}
	return i.escalation.Escalate(stepID)
}

func (i impl) GrantDelegation(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error) {
	if i.grantInTx != nil {
		rec, err := i.grantInTx(fromUserID, toUserID, until, reason)
		if err != nil {
			return nil, err
		}
		delegationhandler.NotifyGranted(i.notifier, rec)
		return rec, nil
	}
	return i.delegation.Grant(fromUserID, toUserID, until, reason)
}

func (i impl) GetDelegation(delegationID string) (*dbmodels.ApprovalDelegation, error) {
	return i.delegation.GetDelegation(delegationID)
}

func (i impl) RevokeDelegation(delegationID string) (bool, error) {
	return i.delegation.Revoke(delegationID)
}

func (i impl) ListDelegations(userID string) (from, to []dbmodels.ApprovalDelegation, err error) {
	return i.delegation.DelegationsOf(userID)
}

func (i impl) CreateStepInstances(requestID string, tmpl dbmodels.StepTemplate, submitter dbmodels.User) ([]dbmodels.StepInstance, error) {
	logger := i.GetLogger(requestID, tmpl)
	assignees := []string{}
	if tmpl.IsParallel {
		candidates, err := i.resolver.ResolveMany(tmpl, submitter)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			assignees = append(assignees, candidate.ID)
		}
	} else {
		assignment, err := i.Assign(tmpl, submitter, AssignOptions{CheckAvailability: true, ConsiderDelegation: true})
		if err != nil {
			return nil, err
		}
		if !assignment.IsEmpty() {
			assignees = append(assignees, assignment.AssigneeID)
		}
	}

	result := make([]dbmodels.StepInstance, 0, len(assignees))
	for _, assigneeID := range assignees {
		rec := dbmodels.StepInstance{
			RequestID:          requestID,
			StepTemplateID:     tmpl.ID,
			StepOrder:          tmpl.StepOrder,
			AssignedApproverID: assigneeID,
			Status:             models.StepStatusPending,
		}
		id, err := i.steps.Create(rec)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка создания этапа согласования")
		}
		rec.ID = id
		result = append(result, rec)
	}
	if len(result) == 0 {
		logger.Info("Согласующий не определён, этап согласуется автоматически")
	} else {
		logger.WithField("count", len(result)).Info("Созданы этапы согласования")
	}
	return result, nil
}

func (i impl) ListOverdue() ([]dbmodels.StepInstance, error) {
	list, err := i.steps.ListPendingWithEscalation()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения ожидающих этапов")
	}
	result := []dbmodels.StepInstance{}
	for _, step := range list {
		overdue, err := i.escalation.ShouldEscalate(step)
		if err != nil {
			return nil, err
		}
		if overdue {
			result = append(result, step)
		}
	}
	return result, nil
}

func (i impl) GetStep(stepID string) (*dbmodels.StepInstance, error) {
	step, err := i.steps.GetByID(stepID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапа согласования")
	}
	if step == nil {
		return nil, apperrors.NotFound("этап согласования", stepID)
	}
	return step, nil
}
