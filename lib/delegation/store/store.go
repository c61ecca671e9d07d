package delegationstore

import (
	"time"

	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalDelegation) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalDelegation, err error)
	Update(id string, updMap map[string]interface{}) error
	// ListInEffectFrom действующие на момент at делегирования от сотрудника, последние выданные первыми
	ListInEffectFrom(fromUserID string, at time.Time) (list []dbmodels.ApprovalDelegation, err error)
	// ListInEffectTo действующие на момент at делегирования сотруднику, последние выданные первыми
	ListInEffectTo(toUserID string, at time.Time) (list []dbmodels.ApprovalDelegation, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalDelegation) (id string, err error) {
	err = i.db.
		Omit("FromUser", "ToUser").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalDelegation, error) {
	rec := dbmodels.ApprovalDelegation{}
	err := i.db.
		Where("id = ?", id).
		Preload("FromUser").
		Preload("ToUser").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalDelegation{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListInEffectFrom(fromUserID string, at time.Time) (list []dbmodels.ApprovalDelegation, err error) {
	return i.listInEffect("from_user_id = ?", fromUserID, at)
}

func (i impl) ListInEffectTo(toUserID string, at time.Time) (list []dbmodels.ApprovalDelegation, err error) {
	return i.listInEffect("to_user_id = ?", toUserID, at)
}

func (i impl) listInEffect(userCond, userID string, at time.Time) (list []dbmodels.ApprovalDelegation, err error) {
	list = []dbmodels.ApprovalDelegation{}
	err = i.db.
		Where(userCond, userID).
		Where("is_active = ?", true).
		Where("start_date <= ?", at).
		Where("(end_date IS NULL OR end_date >= ?)", at).
		Order("start_date DESC").
		Order("created_at DESC").
		Preload("FromUser").
		Preload("ToUser").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
