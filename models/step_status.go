package models

type StepStatus string

const (
	StepStatusPending  StepStatus = "PENDING"
	StepStatusApproved StepStatus = "APPROVED"
	StepStatusRejected StepStatus = "REJECTED"
)

var stepStatusHumanName = map[StepStatus]string{
	StepStatusPending:  "Ожидает решения",
	StepStatusApproved: "Согласовано",
	StepStatusRejected: "Отклонено",
}

func (s StepStatus) ToHuman() string {
	if human, exist := stepStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s StepStatus) IsTerminal() bool {
	return s == StepStatusApproved || s == StepStatusRejected
}
