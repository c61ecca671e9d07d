package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAppErrors(t *testing.T) {
	t.Run(`kind detection survives wrapping`, func(t *testing.T) {
		err := errors.Wrap(NotFound("этап", "step-1"), "ошибка эскалации")
		require.True(t, IsNotFound(err))
		require.False(t, IsInvalidState(err))
		require.False(t, IsValidation(err))

		err = errors.Wrap(InvalidState("не указан сотрудник для эскалации"), "ошибка эскалации")
		require.True(t, IsInvalidState(err))
		require.False(t, IsNotFound(err))

		err = Validation("нельзя делегировать полномочия самому себе")
		require.True(t, IsValidation(err))
	})

	t.Run(`HumanMessage check`, func(t *testing.T) {
		err := errors.Wrap(Validation("срок %d дней", 3), "ctx")
		require.Equal(t, "срок 3 дней", HumanMessage(err))
		require.Equal(t, "", HumanMessage(errors.New("db is down")))
		require.Contains(t, HumanMessage(NotFound("сотрудник", "u1")), "u1")
	})
}
