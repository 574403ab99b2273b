package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/identity"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/middleware"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/uploads"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/utils"
)

// AuthHandler exposes the identity lifecycle under /auth. The group sits
// outside the authorization gate, so the profile routes resolve the caller
// from the bearer token themselves.
type AuthHandler struct {
	svc     *identity.Service
	gate    *middleware.Gate
	uploads *uploads.Store
	logger  *zap.SugaredLogger
}

func NewAuthHandler(svc *identity.Service, gate *middleware.Gate, uploads *uploads.Store, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{svc: svc, gate: gate, uploads: uploads, logger: logger}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in identity.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	user, err := h.svc.Register(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

type verifyPhoneReq struct {
	UserID   string `json:"userId"`
	PhoneOTP string `json:"phoneOtp"`
}

func (h *AuthHandler) VerifyPhoneOTP(c *fiber.Ctx) error {
	var req verifyPhoneReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.UserID == "" || req.PhoneOTP == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "userId and phoneOtp are required")
	}
	if err := h.svc.VerifyPhoneOTP(c.Context(), req.UserID, req.PhoneOTP); err != nil {
		return h.writeError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Phone number verified successfully", nil)
}

type verifyEmailReq struct {
	UserID   string `json:"userId"`
	EmailOTP string `json:"emailOtp"`
}

func (h *AuthHandler) VerifyEmailOTP(c *fiber.Ctx) error {
	var req verifyEmailReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.UserID == "" || req.EmailOTP == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "userId and emailOtp are required")
	}
	if err := h.svc.VerifyEmailOTP(c.Context(), req.UserID, req.EmailOTP); err != nil {
		return h.writeError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Email address verified successfully", nil)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "email and password are required")
	}
	token, user, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login Successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, err := h.gate.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, identity.ErrUnauthenticated.Error())
	}
	user, err := h.svc.Profile(c.Context(), claims.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User profile fetched successfully",
		"user":    user,
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, err := h.gate.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, identity.ErrUnauthenticated.Error())
	}

	var in identity.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}

	var filename string
	if fh, ferr := c.FormFile("profileImage"); ferr == nil && fh != nil {
		filename, err = h.uploads.Save(fh)
		if err != nil {
			h.logger.Errorw("profile image save failed", "user", claims.UserID, "err", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "failed to store profile image")
		}
	}

	user, err := h.svc.UpdateProfile(c.Context(), claims.UserID, in, filename)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User profile updated successfully",
		"user":    user,
	})
}

type forgotPasswordReq struct {
	Identifier string `json:"identifier"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Identifier == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "identifier is required")
	}
	if err := h.svc.ForgotPassword(c.Context(), req.Identifier); err != nil {
		return h.writeError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "OTP send successfully", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in identity.ResetPasswordInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.svc.ResetPassword(c.Context(), in); err != nil {
		return h.writeError(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Password updated successfully", nil)
}

// writeError maps identity errors onto the response contract.
func (h *AuthHandler) writeError(c *fiber.Ctx, err error) error {
	var verr *identity.ValidationError
	if errors.As(err, &verr) {
		return utils.JSONIssues(c, verr.Issues)
	}
	switch {
	case errors.Is(err, identity.ErrConflict):
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrUserNotFound):
		return utils.JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		return utils.JSONError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrInvalidOTP):
		return utils.JSONError(c, fiber.StatusBadRequest, "Invalid OTP")
	default:
		h.logger.Errorw("identity operation failed", "path", c.Path(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
