package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-planner/internal/service"
	"github.com/maheshrc27/content-planner/internal/transfer"
)

type PageHandler struct {
	s  service.PageService
	ds service.DashboardService
	ai service.AIService
}

func NewPageHandler(s service.PageService, ds service.DashboardService, ai service.AIService) *PageHandler {
	return &PageHandler{s: s, ds: ds, ai: ai}
}

func (h *PageHandler) ListPages(c *fiber.Ctx) error {
	pages, err := h.s.List(c.Context())
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(pages)
}

func (h *PageHandler) CreatePage(c *fiber.Ctx) error {
	var in transfer.PageInput
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	page, err := h.s.Create(c.Context(), &in)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(page)
}

func (h *PageHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.s.PageInfo(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *PageHandler) UpdatePage(c *fiber.Ctx) error {
	var in transfer.PageInput
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	page, err := h.s.Update(c.Context(), c.Params("id"), &in)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *PageHandler) RemovePage(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("id")); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PageHandler) ListTargets(c *fiber.Ctx) error {
	targets, err := h.s.Targets(c.Context())
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(targets)
}

func (h *PageHandler) Connect(c *fiber.Ctx) error {
	var in transfer.PageConnection
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	page, err := h.s.Connect(c.Context(), c.Params("id"), in.TargetID)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *PageHandler) Disconnect(c *fiber.Ctx) error {
	page, err := h.s.Disconnect(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	overview, err := h.ds.Overview(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(overview)
}

func (h *PageHandler) AcceptGap(c *fiber.Ctx) error {
	var in transfer.GapAccept
	if err := bind(c, &in); err != nil {
		return respond(c, err)
	}

	post, err := h.ds.AcceptGap(c.Context(), c.Params("id"), in.Date)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PageHandler) Ideas(c *fiber.Ctx) error {
	ideas, err := h.ai.Ideas(c.Context(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ideas": ideas})
}
