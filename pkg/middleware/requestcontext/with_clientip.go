package requestcontext

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedHeader is a header name carrying the client IP set by a trusted
	// proxy, e.g. X-Real-IP or CF-Connecting-IP. Takes priority over the
	// X-Forwarded-For chain when set.
	TrustedHeader string `mapstructure:"trusted_header"`
}

func WithClientIP(config WithClientIPConfig) Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			if headerIP := c.Get(config.TrustedHeader); net.ParseIP(headerIP) != nil {
				return context.WithValue(ctx, clientIPKey{}, headerIP), nil
			}
		}
		if ips := c.IPs(); len(ips) > 0 {
			return context.WithValue(ctx, clientIPKey{}, ips[0]), nil
		}
		return context.WithValue(ctx, clientIPKey{}, c.IP()), nil
	}
}

// GetClientIP returns the client IP from the context, or an empty string.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}
