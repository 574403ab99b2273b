package utils

import "github.com/gofiber/fiber/v2"

// JSONSuccess writes the standard success envelope.
func JSONSuccess(c *fiber.Ctx, status int, message string, payload interface{}) error {
	body := fiber.Map{"message": message}
	if payload != nil {
		body["data"] = payload
	}
	return c.Status(status).JSON(body)
}

// JSONError writes the standard error envelope.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// JSONIssues writes a validation failure as the raw issue list, mirroring the
// 400 body shape the mobile clients already parse.
func JSONIssues(c *fiber.Ctx, issues interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(issues)
}
