package requestcontext

import (
	"context"
	"net/http"

	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/forge-network/token-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type response struct {
	Error string `json:"error"`
}

// Option enriches the request context before the handler chain runs.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var err error
		for _, opt := range opts {
			ctx, err = opt(ctx, c)
			if err != nil {
				logger.ErrorContext(ctx, "failed to extract request context", err, slogx.String("module", "requestcontext"))
				return c.Status(http.StatusInternalServerError).JSON(response{Error: "internal server error"})
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
