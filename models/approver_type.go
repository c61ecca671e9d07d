package models

// ApproverType политика выбора согласующего для этапа
type ApproverType string

const (
	ApproverDirectSupervisor   ApproverType = "DIRECT_SUPERVISOR"
	ApproverDepartmentDirector ApproverType = "DEPARTMENT_DIRECTOR"
	ApproverSpecificUser       ApproverType = "SPECIFIC_USER"
	ApproverUserGroup          ApproverType = "USER_GROUP"
	ApproverSpecificDepartment ApproverType = "SPECIFIC_DEPARTMENT"
	ApproverSubmitter          ApproverType = "SUBMITTER"
	ApproverRole               ApproverType = "ROLE"
)

var approverTypeHumanName = map[ApproverType]string{
	ApproverDirectSupervisor:   "Непосредственный руководитель",
	ApproverDepartmentDirector: "Директор подразделения",
	ApproverSpecificUser:       "Конкретный сотрудник",
	ApproverUserGroup:          "Группа сотрудников",
	ApproverSpecificDepartment: "Руководитель подразделения",
	ApproverSubmitter:          "Автор заявки",
	ApproverRole:               "Сотрудники с ролью",
}

func (a ApproverType) ToHuman() string {
	if human, exist := approverTypeHumanName[a]; exist {
		return human
	}
	return string(a)
}

func (a ApproverType) IsKnown() bool {
	_, ok := approverTypeHumanName[a]
	return ok
}
