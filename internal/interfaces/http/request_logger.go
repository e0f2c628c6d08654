package http

import (
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/margiesol/mew-bad/pkg/logger"
)

// RequestLogger registra cada petición con fiberzerolog: método, ruta, status,
// latencia, request id (del middleware requestid) y el usuario autenticado.
// Nivel por status: 5xx error, 4xx warn, resto info.
func RequestLogger(log *logger.Logger) fiber.Handler {
	base := log.WithComponent("http").Zerolog()
	return fiberzerolog.New(fiberzerolog.Config{
		GetLogger: func(c *fiber.Ctx) zerolog.Logger {
			if uid := GetUserID(c); uid != "" {
				return base.With().Str("user_id", uid).Logger()
			}
			return base
		},
		Fields: []string{
			fiberzerolog.FieldMethod,
			fiberzerolog.FieldPath,
			fiberzerolog.FieldStatus,
			fiberzerolog.FieldLatency,
			fiberzerolog.FieldRequestID,
			fiberzerolog.FieldError,
		},
	})
}
