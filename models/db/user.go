package dbmodels

import (
	"fmt"

	"approval-routing-backend/models"
)

type User struct {
	BaseModel
	FirstName    string          `gorm:"type:varchar(150)"`
	LastName     string          `gorm:"type:varchar(150)"`
	Email        string          `gorm:"type:varchar(255)"`
	IsActive     bool            `gorm:"default:true"`
	DepartmentID string          `gorm:"type:varchar(36);index"`
	Role         models.UserRole `gorm:"type:varchar(50)"`
}

func (r User) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

type UserGroup struct {
	BaseModel
	Name    string            `gorm:"type:varchar(255)"`
	Members []UserGroupMember `gorm:"foreignKey:GroupID"`
}

type UserGroupMember struct {
	BaseModel
	GroupID  string `gorm:"type:varchar(36);index:idx_group_member"`
	UserID   string `gorm:"type:varchar(36);index:idx_group_member"`
	User     *User  `gorm:"foreignKey:UserID"`
	Position int
}
