package v1

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Authentication itself happens upstream; the gateway forwards the verified
// identity in X-User-ID and the provider token as a bearer header.

func identityRequired(ctx *fiber.Ctx) error {
	if callerID(ctx) == "" {
		return errorResponse(ctx, http.StatusUnauthorized, "authentication required")
	}

	return ctx.Next()
}

func callerID(ctx *fiber.Ctx) string {
	return ctx.Get("X-User-ID")
}

func providerToken(ctx *fiber.Ctx) string {
	auth := ctx.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(auth, "Bearer ")
}
