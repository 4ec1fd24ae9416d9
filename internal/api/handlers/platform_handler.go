package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/content-planner/configs"
	"github.com/maheshrc27/content-planner/internal/service"
)

type PlatformHandler struct {
	ps  service.PlatformService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{ps: ps, cfg: cfg}
}

func (h *PlatformHandler) Login(c *fiber.Ctx) error {
	authURL, err := h.ps.GetAuthURL(c.Context())
	if err != nil {
		return respond(c, err)
	}
	return c.Redirect(authURL)
}

// Callback finishes the Facebook login and sends the operator back to the
// dashboard, with the failure reason in the query when it did not work.
func (h *PlatformHandler) Callback(c *fiber.Ctx) error {
	_, err := h.ps.Callback(c.Context(), c.Query("code"), c.Query("state"), c.Query("error_reason"))

	params := url.Values{}
	if err != nil {
		params.Set("facebook_error", err.Error())
	} else {
		params.Set("facebook", "connected")
	}

	redirectURL := fmt.Sprintf("%s/?%s", h.cfg.FrontendURL, params.Encode())
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) Status(c *fiber.Ctx) error {
	status, err := h.ps.Status(c.Context())
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *PlatformHandler) Logout(c *fiber.Ctx) error {
	if err := h.ps.Logout(c.Context()); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
