package response

import "github.com/gofiber/fiber/v2"

// Success sends 200 with the standard {success, message, data} envelope.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created sends 201 with the standard envelope.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Error sends an error envelope with the given status code. The message is
// the client-facing text; internal detail belongs in the server logs only.
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{"success": false, "message": message})
}
