package apiv1

import (
	"fmt"
	"time"

	"approval-routing-backend/controllers"
	xlsexport "approval-routing-backend/lib/export/xls"
	routinghandler "approval-routing-backend/lib/routing"
	"approval-routing-backend/middleware"
	apimodels "approval-routing-backend/models/api"
	routingapimodels "approval-routing-backend/models/api/routing"

	"github.com/gofiber/fiber/v2"
)

type stepApiController struct {
	controllers.BaseAPIController
}

func InitStepApiRouters(app *fiber.App) {
	controller := stepApiController{}
	app.Route("steps", func(router fiber.Router) {
		router.Get("overdue/export", controller.exportOverdue)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("should_escalate", controller.shouldEscalate)
			idRoute.Post("escalate", middleware.AdminRoleRequired(), controller.escalate)
		})
	})
}

// @Summary Проверка необходимости эскалации
// @Tags Этапы согласования
// @Description Этап ждёт решения дольше таймаута эскалации шаблона
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "step ID"
// @Success 200 {object} apimodels.Response{data=routingapimodels.ShouldEscalateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/steps/{id}/should_escalate [get]
func (c *stepApiController) shouldEscalate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	step, err := routinghandler.Instance.GetStep(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения этапа согласования")
	}
	should, err := routinghandler.Instance.ShouldEscalate(*step)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки необходимости эскалации")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.ShouldEscalateView{ShouldEscalate: should}))
}

// @Summary Эскалация этапа
// @Tags Этапы согласования
// @Description Переназначает этап на сотрудника эскалации из шаблона. Статус этапа не меняется
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "step ID"
// @Success 200 {object} apimodels.Response{data=routingapimodels.StepView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/steps/{id}/escalate [post]
func (c *stepApiController) escalate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	step, err := routinghandler.Instance.Escalate(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка эскалации этапа согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.StepConvert(*step)))
}

// @Summary Выгрузка просроченных этапов
// @Tags Этапы согласования
// @Description XLSX со всеми ожидающими этапами, которые пора эскалировать
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 500 {object} apimodels.Response
// @router /api/v1/steps/overdue/export [get]
func (c *stepApiController) exportOverdue(ctx *fiber.Ctx) error {
	list, err := routinghandler.Instance.ListOverdue()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения просроченных этапов")
	}
	buf, err := xlsexport.Instance.ExportOverdueSteps(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки просроченных этапов")
	}
	fileName := fmt.Sprintf("overdue_steps_%v.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return ctx.Status(fiber.StatusOK).SendStream(buf, buf.Len())
}
