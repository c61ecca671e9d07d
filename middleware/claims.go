package middleware

import (
	authutils "approval-routing-backend/lib/utils/auth-utils"
	"approval-routing-backend/models"
	apimodels "approval-routing-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, ok := claims["role"].(string); ok {
		return models.UserRole(role)
	}
	return ""
}

// AdminRoleRequired ручные операции над маршрутом согласования (эскалация, чужие делегирования)
func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUserRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
