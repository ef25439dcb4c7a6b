package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/services"
)

const (
	loginFailureLimit  = 5
	loginFailureWindow = 15 * time.Minute
)

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	needsSetup, err := handler.authService.RequiresSetup()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to check setup status")
	}
	return c.JSON(fiber.Map{"needs_setup": needsSetup})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := handler.authService.Register(input.Email, input.Password, input.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSetupAlreadyDone):
			return apiError(c, fiber.StatusConflict, "setup already completed")
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid email or password")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "password too weak")
		default:
			return apiError(c, fiber.StatusInternalServerError, "registration failed")
		}
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	limiterKey := loginLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginFailureLimit, loginFailureWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts, try again later")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginFailureWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start session")
	}
	return c.JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input changePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := handler.authService.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCurrentPassword):
			return apiError(c, fiber.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, services.ErrPasswordUnchanged):
			return apiError(c, fiber.StatusBadRequest, "new password must differ")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "password too weak")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to change password")
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
