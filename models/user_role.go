package models

type UserRole string

const (
	AdminRole      UserRole = "ADMIN_ROLE"
	EmployeeRole   UserRole = "EMPLOYEE_ROLE"
	HRManagerRole  UserRole = "HR_MANAGER_ROLE"
	AccountantRole UserRole = "ACCOUNTANT_ROLE"
	ServiceDesk    UserRole = "SERVICE_DESK_ROLE"
)

var roleHumanName = map[UserRole]string{
	AdminRole:      "Администратор",
	EmployeeRole:   "Сотрудник",
	HRManagerRole:  "HR-менеджер",
	AccountantRole: "Бухгалтер",
	ServiceDesk:    "Служба поддержки",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}
