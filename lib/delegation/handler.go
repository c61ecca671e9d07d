package delegationhandler

import (
	"time"

	"approval-routing-backend/db"
	approverresolver "approval-routing-backend/lib/approver-resolver"
	delegationstore "approval-routing-backend/lib/delegation/store"
	directorystore "approval-routing-backend/lib/directory/store"
	notifyhandler "approval-routing-backend/lib/notify"
	apperrors "approval-routing-backend/lib/utils/app-errors"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Grant(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error)
	GetDelegation(delegationID string) (*dbmodels.ApprovalDelegation, error)
	// Revoke false, если делегирование не найдено
	Revoke(delegationID string) (bool, error)
	EffectiveDelegatesOf(userID string) ([]dbmodels.User, error)
	DelegationsOf(userID string) (from, to []dbmodels.ApprovalDelegation, err error)
	// DelegateOf текущий заместитель по делегированию, при нескольких действующих - последний выданный
	DelegateOf(userID string) (*dbmodels.User, error)
	EffectiveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User, considerDelegation bool) (*dbmodels.User, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		delegationstore.NewInstance(db.DB),
		directorystore.NewInstance(db.DB),
		approverresolver.Instance,
		notifyhandler.Instance,
	)
}

// NewHandlerWithTx обработчик без уведомлений, после фиксации транзакции вызывающий отправляет их через NotifyGranted
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return NewInstance(
		delegationstore.NewInstance(tx),
		directorystore.NewInstance(tx),
		approverresolver.NewInstance(directorystore.NewInstance(tx)),
		nil,
	)
}

func NotifyGranted(notifier notifyhandler.Provider, rec *dbmodels.ApprovalDelegation) {
	if notifier == nil || rec == nil || rec.FromUser == nil || rec.ToUser == nil {
		return
	}
	notifier.DelegationGranted(*rec, *rec.FromUser, *rec.ToUser)
}

func NewInstance(store delegationstore.Provider, directory directorystore.Provider,
	resolver approverresolver.Provider, notifier notifyhandler.Provider) Provider {
	return &impl{
		store:     store,
		directory: directory,
		resolver:  resolver,
		notifier:  notifier,
		now:       time.Now,
	}
}

type impl struct {
	store     delegationstore.Provider
	directory directorystore.Provider
	resolver  approverresolver.Provider
	notifier  notifyhandler.Provider
	now       func() time.Time
}

func (i impl) GetLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) Grant(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, apperrors.Validation("не указаны участники делегирования")
	}
	if fromUserID == toUserID {
		return nil, apperrors.Validation("нельзя делегировать полномочия самому себе")
	}
	now := i.now()
	if until != nil && until.Before(now) {
		return nil, apperrors.Validation("дата окончания делегирования уже прошла")
	}
	fromUser, err := i.directory.GetUserByID(fromUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника, передающего полномочия")
	}
	if fromUser == nil {
		return nil, apperrors.NotFound("сотрудник", fromUserID)
	}
	toUser, err := i.directory.GetUserByID(toUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника, получающего полномочия")
	}
	if toUser == nil {
		return nil, apperrors.NotFound("сотрудник", toUserID)
	}

	rec := dbmodels.ApprovalDelegation{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		StartDate:  now,
		EndDate:    until,
		IsActive:   true,
		Reason:     reason,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения делегирования")
	}
	rec.ID = id
	rec.FromUser = fromUser
	rec.ToUser = toUser
	i.GetLogger(fromUserID).
		WithField("delegation_id", id).
		WithField("to_user_id", toUserID).
		Info("Полномочия по согласованию делегированы")
	NotifyGranted(i.notifier, &rec)
	return &rec, nil
}

func (i impl) GetDelegation(delegationID string) (*dbmodels.ApprovalDelegation, error) {
	rec, err := i.store.GetByID(delegationID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения делегирования")
	}
	return rec, nil
}

func (i impl) Revoke(delegationID string) (bool, error) {
	rec, err := i.store.GetByID(delegationID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения делегирования")
	}
	if rec == nil {
		return false, nil
	}
	err = i.store.Update(delegationID, map[string]interface{}{"is_active": false})
	if err != nil {
		return false, errors.Wrap(err, "ошибка отзыва делегирования")
	}
	i.GetLogger(rec.FromUserID).WithField("delegation_id", delegationID).Info("Делегирование отозвано")
	return true, nil
}

func (i impl) EffectiveDelegatesOf(userID string) ([]dbmodels.User, error) {
	list, err := i.store.ListInEffectFrom(userID, i.now())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка делегирований")
	}
	seen := map[string]bool{}
	result := []dbmodels.User{}
	for _, rec := range list {
		if seen[rec.ToUserID] {
			continue
		}
		seen[rec.ToUserID] = true
		delegate, err := i.delegateUser(rec)
		if err != nil {
			return nil, err
		}
		if delegate != nil {
			result = append(result, *delegate)
		}
	}
	return result, nil
}

func (i impl) DelegationsOf(userID string) (from, to []dbmodels.ApprovalDelegation, err error) {
	now := i.now()
	from, err = i.store.ListInEffectFrom(userID, now)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения выданных делегирований")
	}
	to, err = i.store.ListInEffectTo(userID, now)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения полученных делегирований")
	}
	return from, to, nil
}

func (i impl) DelegateOf(userID string) (*dbmodels.User, error) {
	delegates, err := i.EffectiveDelegatesOf(userID)
	if err != nil {
		return nil, err
	}
	if len(delegates) == 0 {
		return nil, nil
	}
	return &delegates[0], nil
}

func (i impl) EffectiveApprover(tmpl dbmodels.StepTemplate, submitter dbmodels.User, considerDelegation bool) (*dbmodels.User, error) {
	primary, err := i.resolver.Resolve(tmpl, submitter)
	if err != nil {
		return nil, err
	}
	if primary == nil || !considerDelegation {
		return primary, nil
	}
	delegate, err := i.DelegateOf(primary.ID)
	if err != nil {
		return nil, err
	}
	// автор заявки не согласует её сам, даже по делегированию
	if delegate != nil && delegate.ID != submitter.ID {
		return delegate, nil
	}
	return primary, nil
}

func (i impl) delegateUser(rec dbmodels.ApprovalDelegation) (*dbmodels.User, error) {
	if rec.ToUser != nil {
		return rec.ToUser, nil
	}
	user, err := i.directory.GetUserByID(rec.ToUserID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудника по делегированию")
	}
	return user, nil
}
