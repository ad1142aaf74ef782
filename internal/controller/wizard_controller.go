package controller

import (
	"errors"
	"net/url"

	"job-wizard-be/internal/dto"
	"job-wizard-be/internal/pkg/serverutils"
	"job-wizard-be/internal/service"
	"job-wizard-be/pkg/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWizardController interface {
	RegisterRoutes(r fiber.Router)
}

type wizardController struct {
	service service.IWizardService
}

func NewWizardController(service service.IWizardService) IWizardController {
	return &wizardController{service: service}
}

func (c *wizardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wizard/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/session", c.StartSession)
	h.Get("/session", c.GetState)
	h.Post("/session/input", c.SetFreeText)
	h.Post("/session/suggest", c.Suggest)
	h.Post("/session/keywords", c.SelectKeyword)
	h.Delete("/session/keywords/:text", c.RemoveKeyword)
	h.Post("/session/next", c.Next)
	h.Post("/session/back", c.Back)
	h.Post("/session/transition/complete", c.CompleteTransition)
	h.Post("/session/filters", c.SetFilters)
	h.Post("/session/search", c.Search)
	h.Post("/session/advance", c.Advance)
	h.Post("/session/apply/:vacancyId", c.Apply)
	h.Post("/session/reset", c.Reset)
	h.Post("/session/history/back", c.HistoryBack)
}

func currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, serverutils.NewApiError(fiber.StatusUnauthorized, "Missing user identity")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, serverutils.NewApiError(fiber.StatusUnauthorized, "Invalid user identity")
	}
	return userId, nil
}

// mapWizardError translates engine errors to API errors. Conflicting state
// (locked transitions, unconfirmed destructive navigation) is 409; bad
// input is 400.
func mapWizardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrTransitionInProgress),
		errors.Is(err, wizard.ErrConfirmationRequired):
		return serverutils.NewApiError(fiber.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrNoKeywords),
		errors.Is(err, wizard.ErrKeywordLimit),
		errors.Is(err, wizard.ErrDuplicateKeyword),
		errors.Is(err, wizard.ErrEmptyKeyword),
		errors.Is(err, wizard.ErrNoFurtherStep):
		return serverutils.NewApiError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (c *wizardController) StartSession(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	state, err := c.service.StartSession(ctx.Context(), userId, req.ApplicationId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session ready", state))
}

func (c *wizardController) GetState(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	state, err := c.service.GetState(ctx.Context(), userId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session state", state))
}

func (c *wizardController) SetFreeText(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.FreeTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.service.SetFreeText(ctx.Context(), userId, req.Text)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Input recorded", state))
}

func (c *wizardController) Suggest(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Suggest(ctx.Context(), userId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Suggestions ready", res))
}

func (c *wizardController) SelectKeyword(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectKeywordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.service.SelectKeyword(ctx.Context(), userId, req.Text, req.Source)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Keyword selected", state))
}

func (c *wizardController) RemoveKeyword(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	text, err := decodeParam(ctx, "text")
	if err != nil {
		return err
	}

	state, err := c.service.RemoveKeyword(ctx.Context(), userId, text)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Keyword removed", state))
}

func (c *wizardController) Next(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Next(ctx.Context(), userId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Transition started", res))
}

func (c *wizardController) Back(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.BackRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.service.Back(ctx.Context(), userId, req.Confirmed)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Transition started", res))
}

func (c *wizardController) CompleteTransition(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	state, err := c.service.CompleteTransition(ctx.Context(), userId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Transition completed", state))
}

func (c *wizardController) SetFilters(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.FiltersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	state, err := c.service.SetFilters(ctx.Context(), userId, req.Filters)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Filters updated", state))
}

func (c *wizardController) Search(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}

	res, err := c.service.Search(ctx.Context(), userId, page)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *wizardController) Advance(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	delta := ctx.QueryInt("delta", 1)

	state, err := c.service.Advance(ctx.Context(), userId, delta)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Index advanced", state))
}

func (c *wizardController) Apply(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	vacancyId, err := decodeParam(ctx, "vacancyId")
	if err != nil {
		return err
	}

	state, err := c.service.Apply(ctx.Context(), userId, vacancyId)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Application marked", state))
}

func (c *wizardController) Reset(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.ResetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.service.Reset(ctx.Context(), userId, req.Scope)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reset", state))
}

func (c *wizardController) HistoryBack(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.BackRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.service.HistoryBack(ctx.Context(), userId, req.Confirmed)
	if err != nil {
		return mapWizardError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("History navigation handled", res))
}

func decodeParam(ctx *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(ctx.Params(name))
	if err != nil || value == "" {
		return "", serverutils.NewApiError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return value, nil
}
