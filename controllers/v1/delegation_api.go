package apiv1

import (
	"approval-routing-backend/controllers"
	routinghandler "approval-routing-backend/lib/routing"
	"approval-routing-backend/middleware"
	apimodels "approval-routing-backend/models/api"
	routingapimodels "approval-routing-backend/models/api/routing"

	"github.com/gofiber/fiber/v2"
)

type delegationApiController struct {
	controllers.BaseAPIController
}

func InitDelegationApiRouters(app *fiber.App) {
	controller := delegationApiController{}
	app.Route("delegations", func(router fiber.Router) {
		router.Post("", controller.grant)
		router.Get("", controller.list)
		router.Delete(":id", controller.revoke)
	})
}

// @Summary Делегирование полномочий
// @Tags Делегирование
// @Description Передать полномочия по согласованию другому сотруднику. Передать чужие полномочия может только администратор
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	routingapimodels.DelegationCreate	true	"request body"
// @Success 200 {object} apimodels.Response{data=routingapimodels.DelegationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/delegations [post]
func (c *delegationApiController) grant(ctx *fiber.Ctx) error {
	var payload routingapimodels.DelegationCreate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fromUserID := payload.FromUserID
	if fromUserID == "" {
		fromUserID = middleware.GetUserID(ctx)
	}
	if !c.isOwnerOrAdmin(ctx, fromUserID) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
	}
	rec, err := routinghandler.Instance.GrantDelegation(fromUserID, payload.ToUserID, payload.Until, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка делегирования полномочий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.DelegationConvert(*rec)))
}

// @Summary Отзыв делегирования
// @Tags Делегирование
// @Description Отзыв делегирования. revoked=false - делегирование не найдено. Чужое делегирование может отозвать только администратор
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "delegation ID"
// @Success 200 {object} apimodels.Response{data=routingapimodels.RevokeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/delegations/{id} [delete]
func (c *delegationApiController) revoke(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := routinghandler.Instance.GetDelegation(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва делегирования")
	}
	if rec == nil {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.RevokeView{Revoked: false}))
	}
	if !c.isOwnerOrAdmin(ctx, rec.FromUserID) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
	}
	revoked, err := routinghandler.Instance.RevokeDelegation(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва делегирования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.RevokeView{Revoked: revoked}))
}

// @Summary Действующие делегирования
// @Tags Делегирование
// @Description Выданные и полученные сотрудником действующие делегирования. Чужие делегирования доступны только администратору
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   user_id          	query   string	false   "user ID, по умолчанию текущий пользователь"
// @Success 200 {object} apimodels.Response{data=routingapimodels.DelegationsView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/delegations [get]
func (c *delegationApiController) list(ctx *fiber.Ctx) error {
	userID := ctx.Query("user_id")
	if userID == "" {
		userID = middleware.GetUserID(ctx)
	}
	if !c.isOwnerOrAdmin(ctx, userID) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
	}
	from, to, err := routinghandler.Instance.ListDelegations(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения делегирований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.DelegationsView{
		From: routingapimodels.DelegationListConvert(from),
		To:   routingapimodels.DelegationListConvert(to),
	}))
}

func (c *delegationApiController) isOwnerOrAdmin(ctx *fiber.Ctx, userID string) bool {
	return userID == middleware.GetUserID(ctx) || middleware.GetUserRole(ctx).IsAdmin()
}
