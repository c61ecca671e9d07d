package controllers

import (
	"strings"

	apperrors "approval-routing-backend/lib/utils/app-errors"
	"approval-routing-backend/middleware"
	apimodels "approval-routing-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("не указан идентификатор (%v)", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError ошибки прикладного уровня отдаются клиенту с текстом, остальные логируются и скрываются за userMsg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, userMsg string) error {
	switch {
	case apperrors.IsValidation(err):
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(apperrors.HumanMessage(err)))
	case apperrors.IsNotFound(err):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(apperrors.HumanMessage(err)))
	case apperrors.IsInvalidState(err):
		return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(apperrors.HumanMessage(err)))
	}
	logger.WithError(err).Error(userMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(userMsg))
}
