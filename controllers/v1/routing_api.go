package apiv1

import (
	"approval-routing-backend/controllers"
	routinghandler "approval-routing-backend/lib/routing"
	apimodels "approval-routing-backend/models/api"
	routingapimodels "approval-routing-backend/models/api/routing"

	"github.com/gofiber/fiber/v2"
)

type routingApiController struct {
	controllers.BaseAPIController
}

func InitRoutingApiRouters(app *fiber.App) {
	controller := routingApiController{}
	app.Route("routing", func(router fiber.Router) {
		router.Post("resolve", controller.resolve)
		router.Post("resolve_parallel", controller.resolveParallel)
		router.Post("assignee", controller.assignee)
		router.Post("steps", controller.createSteps)
		router.Get("parallel_group/:groupId/request/:requestId", controller.groupSatisfied)
	})
}

// @Summary Согласующий этапа
// @Tags Маршрутизация
// @Description Согласующий по политике шаблона этапа, без учёта отпусков и делегирования. null - этап пропускается
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	routingapimodels.ResolveRequest		true	"request body"
// @Success 200 {object} apimodels.Response{data=routingapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/routing/resolve [post]
func (c *routingApiController) resolve(ctx *fiber.Ctx) error {
	var payload routingapimodels.ResolveRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tmpl, submitter, err := routinghandler.Instance.LoadContext(payload.TemplateID, payload.SubmitterID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка определения согласующего")
	}
	approver, err := routinghandler.Instance.ResolveApprover(*tmpl, *submitter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка определения согласующего")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.UserConvert(approver)))
}

// @Summary Согласующие параллельного этапа
// @Tags Маршрутизация
// @Description Все кандидаты параллельного этапа, автор заявки исключается
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	routingapimodels.ResolveRequest		true	"request body"
// @Success 200 {object} apimodels.Response{data=[]routingapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/routing/resolve_parallel [post]
func (c *routingApiController) resolveParallel(ctx *fiber.Ctx) error {
	var payload routingapimodels.ResolveRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tmpl, submitter, err := routinghandler.Instance.LoadContext(payload.TemplateID, payload.SubmitterID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка определения согласующих")
	}
	list, err := routinghandler.Instance.ResolveParallelApprovers(*tmpl, *submitter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка определения согласующих")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.UserListConvert(list)))
}

// @Summary Назначение согласующего
// @Tags Маршрутизация
// @Description Основной согласующий, затем замещение на время отпуска, затем делегирование
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	routingapimodels.AssigneeRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=routingapimodels.AssignmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/routing/assignee [post]
func (c *routingApiController) assignee(ctx *fiber.Ctx) error {
	var payload routingapimodels.AssigneeRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tmpl, submitter, err := routinghandler.Instance.LoadContext(payload.TemplateID, payload.SubmitterID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения согласующего")
	}
	assignment, err := routinghandler.Instance.Assign(*tmpl, *submitter, routinghandler.AssignOptions{
		CheckAvailability:  payload.CheckAvailability,
		ConsiderDelegation: payload.ConsiderDelegation,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения согласующего")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.AssignmentView{
		PrimaryID:    assignment.PrimaryID,
		AssigneeID:   assignment.AssigneeID,
		SubstituteID: assignment.SubstituteID,
		DelegateID:   assignment.DelegateID,
		AutoApprove:  assignment.IsEmpty(),
	}))
}

// @Summary Создание этапов заявки
// @Tags Маршрутизация
// @Description Создаёт этапы согласования заявки по шаблону. Пустой список - этап согласован автоматически
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	routingapimodels.CreateStepsRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]routingapimodels.StepView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/routing/steps [post]
func (c *routingApiController) createSteps(ctx *fiber.Ctx) error {
	var payload routingapimodels.CreateStepsRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tmpl, submitter, err := routinghandler.Instance.LoadContext(payload.TemplateID, payload.SubmitterID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания этапов согласования")
	}
	list, err := routinghandler.Instance.CreateStepInstances(payload.RequestID, *tmpl, *submitter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания этапов согласования")
	}
	result := make([]routingapimodels.StepView, 0, len(list))
	for _, step := range list {
		result = append(result, routingapimodels.StepConvert(step))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Кворум параллельной группы
// @Tags Маршрутизация
// @Description Набрано ли минимальное количество согласований в параллельной группе заявки
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   groupId          	path    string	true    "parallel group ID"
// @Param   requestId          	path    string	true    "request ID"
// @Success 200 {object} apimodels.Response{data=routingapimodels.GroupSatisfiedView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/routing/parallel_group/{groupId}/request/{requestId} [get]
func (c *routingApiController) groupSatisfied(ctx *fiber.Ctx) error {
	groupID, err := c.GetIDByKey(ctx, "groupId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requestID, err := c.GetIDByKey(ctx, "requestId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	satisfied, err := routinghandler.Instance.IsParallelGroupSatisfied(groupID, requestID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки кворума")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(routingapimodels.GroupSatisfiedView{Satisfied: satisfied}))
}
