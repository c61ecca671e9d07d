package models

type RequestType string

const (
	RequestTypeLeave     RequestType = "leave"
	RequestTypeSickLeave RequestType = "sick_leave"
	RequestTypeService   RequestType = "service"
	RequestTypeGeneric   RequestType = "generic"
)

type VacationStatus string

const (
	VacationStatusPlanned  VacationStatus = "planned"
	VacationStatusApproved VacationStatus = "approved"
	VacationStatusCanceled VacationStatus = "canceled"
)
