package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"KidFlex/config"
	"KidFlex/pkg/errors"
	"KidFlex/pkg/logger"
	"KidFlex/pkg/response"
)

// RecoverMiddleware turns panics into 500 responses. Development responses
// carry the panic value and stack, production ones do not.
func RecoverMiddleware() app.HandlerFunc {
	isProduction := config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				fields := []zap.Field{
					zap.String("panic", fmt.Sprintf("%v", err)),
					zap.String("path", string(c.Path())),
					zap.String("method", string(c.Method())),
					zap.String("client_ip", c.ClientIP()),
					zap.ByteString("stack", stack),
				}
				if userID, ok := GetUserID(ctx, c); ok {
					fields = append(fields, zap.String("user_id", userID))
				}
				logger.Logger.Error("[PANIC RECOVERED]", fields...)

				errDef := errors.Definition{
					Code:    "INTERNAL_SERVER_ERROR",
					Message: "Internal server error, please retry later",
				}

				if isProduction {
					response.Error(ctx, c, &errDef)
					return
				}

				errDef.Message = fmt.Sprintf("Internal error: %v", err)
				response.ErrorWithDetails(ctx, c, &errDef, map[string]interface{}{
					"panic":     fmt.Sprintf("%v", err),
					"stack":     string(stack),
					"timestamp": time.Now().Format(time.RFC3339),
				})
			}
		}()

		c.Next(ctx)
	}
}
