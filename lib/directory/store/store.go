package directorystore

import (
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider справочник оргструктуры, только чтение. Отсутствие записи - nil без ошибки
type Provider interface {
	GetUserByID(userID string) (*dbmodels.User, error)
	GetDepartmentByID(departmentID string) (*dbmodels.Department, error)
	GetUsersInGroup(groupID string) ([]dbmodels.User, error)
	GetAllUsers() ([]dbmodels.User, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetUserByID(userID string) (*dbmodels.User, error) {
	if userID == "" {
		return nil, nil
	}
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", userID).
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

func (i impl) GetDepartmentByID(departmentID string) (*dbmodels.Department, error) {
	if departmentID == "" {
		return nil, nil
	}
	rec := dbmodels.Department{}
	err := i.db.
		Where("id = ?", departmentID).
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

func (i impl) GetUsersInGroup(groupID string) ([]dbmodels.User, error) {
	members := []dbmodels.UserGroupMember{}
	err := i.db.
		Where("group_id = ?", groupID).
		Order("position ASC").
		Order("created_at ASC").
		Preload("User").
		Find(&members).
		Error
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.User, 0, len(members))
	for _, member := range members {
		if member.User == nil {
			continue
		}
		result = append(result, *member.User)
	}
	return result, nil
}

func (i impl) GetAllUsers() ([]dbmodels.User, error) {
	list := []dbmodels.User{}
	err := i.db.
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
