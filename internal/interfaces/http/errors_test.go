package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/pkg/logger"
)

func errorApp(buf *bytes.Buffer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger(logger.New(logger.Config{Env: "production", Out: buf})))
	app.Get("/interno", func(c *fiber.Ctx) error {
		return respondError(c, errors.New(`ERROR: relation "invoices" does not exist (SQLSTATE 42P01)`))
	})
	app.Get("/no-existe", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("factura: %w", domain.ErrNotFound))
	})
	app.Get("/panico", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "pool agotado")
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestRespondError_InternoNoExponeDetalleYQuedaEnLog(t *testing.T) {
	var buf bytes.Buffer
	app := errorApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/interno", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp.Body)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "error interno", body.Message)
	assert.NotContains(t, body.Message, "SQLSTATE")

	assert.Contains(t, buf.String(), "SQLSTATE 42P01")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestRespondError_DominioConservaStatus(t *testing.T) {
	app := errorApp(&bytes.Buffer{})

	resp, err := app.Test(httptest.NewRequest("GET", "/no-existe", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Code)
}

func TestErrorHandler_ErroresDeFiber(t *testing.T) {
	app := errorApp(&bytes.Buffer{})

	resp, err := app.Test(httptest.NewRequest("GET", "/ruta-inexistente", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/panico", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp.Body)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "pool agotado")
}
