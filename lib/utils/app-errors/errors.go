package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError упомянутая сущность (сотрудник, подразделение, этап, делегирование) не существует
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s не найден(о): %s", e.Entity, e.ID)
}

// InvalidStateError не выполнены предусловия операции
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	return e.Reason
}

// ValidationError некорректные входные данные, Reason показывается пользователю
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func NotFound(entity, id string) error {
	return errors.WithStack(NotFoundError{Entity: entity, ID: id})
}

func InvalidState(format string, args ...interface{}) error {
	return errors.WithStack(InvalidStateError{Reason: fmt.Sprintf(format, args...)})
}

func Validation(format string, args ...interface{}) error {
	return errors.WithStack(ValidationError{Reason: fmt.Sprintf(format, args...)})
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// HumanMessage достаёт текст для пользователя из обёрнутой ошибки
func HumanMessage(err error) string {
	var validation ValidationError
	if errors.As(err, &validation) {
		return validation.Reason
	}
	var state InvalidStateError
	if errors.As(err, &state) {
		return state.Reason
	}
	var notFound NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return ""
}
