package apiv1

import (
	"approval-routing-backend/controllers"
	vacationhandler "approval-routing-backend/lib/vacation"
	apimodels "approval-routing-backend/models/api"
	routingapimodels "approval-routing-backend/models/api/routing"

	"github.com/gofiber/fiber/v2"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users/:id", func(router fiber.Router) {
		router.Get("substitute", controller.substitute)
	})
}

// @Summary Замещающий сотрудник
// @Tags Сотрудники
// @Description Замещающий по графику отпусков на сегодня, null если сотрудник не в отпуске или замещающий не назначен
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "user ID"
// @Success 200 {object} apimodels.Response{data=routingapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id}/substitute [get]
func (c *userApiController) substitute(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := vacationhandler.Instance.GetActiveSubstitute(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения замещающего сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.UserConvert(rec)))
}
