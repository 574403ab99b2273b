package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/handlers"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/middleware"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
)

// Setup mounts the authorization gate and every resource group. The /auth
// group is public by the gate's path rule; the OTP-issuing endpoints carry the
// redis rate limit.
func Setup(
	app *fiber.App,
	gate *middleware.Gate,
	limiter *middleware.RateLimiter,
	authH *handlers.AuthHandler,
	propH *handlers.PropertyHandler,
	amenH *handlers.AmenityHandler,
	catH *handlers.CategoryHandler,
) {
	app.Use(gate.Handler())

	byIP := func(c *fiber.Ctx) string { return c.IP() }

	auth := app.Group("/auth")
	auth.Post("/register", limiter.MiddlewareByKey(byIP), authH.Register)
	auth.Post("/verify-otp", authH.VerifyPhoneOTP)
	auth.Post("/verify-email-otp", authH.VerifyEmailOTP)
	auth.Post("/login", authH.Login)
	auth.Get("/profile", authH.Profile)
	auth.Post("/profile", authH.UpdateProfile)
	auth.Post("/forgot-password", limiter.MiddlewareByKey(byIP), authH.ForgotPassword)
	auth.Post("/reset-password", authH.ResetPassword)

	property := app.Group("/property")
	property.Post("/approve-property", gate.RequireRole(models.RoleAdmin), propH.Approve)
	property.Get("/all-properties", gate.RequireRole(models.RoleAdmin), propH.ListByStatus)
	property.Post("/", propH.Create)
	property.Get("/:id?", propH.Get)
	property.Patch("/:id", propH.Update)
	property.Delete("/:id", propH.Delete)
	property.Post("/:id/amenities/:amenitiesId", propH.AddAmenity)
	property.Delete("/:id/amenities/:amenitiesId", propH.RemoveAmenity)

	amenities := app.Group("/amenities")
	amenities.Post("/", amenH.Create)
	amenities.Get("/:id?", amenH.Get)
	amenities.Patch("/:id", amenH.Update)
	amenities.Delete("/:id", amenH.Delete)

	category := app.Group("/category")
	category.Put("/", gate.RequireRole(models.RoleAdmin), catH.Create)
	category.Get("/:id?", catH.Get)
	category.Patch("/:id", gate.RequireRole(models.RoleAdmin), catH.Update)
	category.Delete("/:id", gate.RequireRole(models.RoleAdmin), catH.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
}
