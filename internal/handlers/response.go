package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/services"
)

var errInvalidBody = errors.New("Invalid request body")

// respondError renders service errors with their status. Anything else is
// handed to the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	se, ok := services.AsServiceError(err)
	if !ok {
		return err
	}

	resp := dto.ErrorResponse{Message: se.Message}
	if se.Kind == services.KindProvider && se.Err != nil {
		resp.Error = se.Err.Error()
	}
	return c.Status(se.Status()).JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msg})
}

// ErrorHandler is the fallback for errors no handler rendered itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Message: message})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// providerContext detaches the request context so a client disconnect does
// not abort provider calls or the write that follows them.
func providerContext(c *fiber.Ctx) context.Context {
	return context.WithoutCancel(c.UserContext())
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into req and runs struct validation.
func bind(c *fiber.Ctx, v *validator.Validate, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	if err := v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New(describe(fieldErrs[0]))
		}
		return err
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
