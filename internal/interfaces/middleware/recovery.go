package middleware

import (
	"runtime/debug"

	"github.com/valyala/fasthttp"

	"payment-gateway/internal/infrastructure/logger"
)

// Recovery recovers from panics in HTTP handlers and logs them
func Recovery(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithField("stack", string(debug.Stack())).
					WithField("panic", err).
					WithField("method", string(ctx.Method())).
					WithField("path", string(ctx.Path())).
					Error("Panic recuperado no handler HTTP")

				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"error": "Internal Server Error"}`)
			}
		}()

		next(ctx)
	}
}
