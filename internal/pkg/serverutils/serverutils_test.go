package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/internal/pkg/logger"
	"gymbro-be/internal/service"
	"gymbro-be/pkg/coach"
	"gymbro-be/pkg/lock"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JwtMiddleware(secret), func(c *fiber.Ctx) error {
		return c.SendString(Username(c))
	})

	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "kai", "exp": time.Now().Add(time.Hour).Unix()})
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK, body: "kai"},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + valid, status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "kai"}), status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "kai", "exp": time.Now().Add(-time.Hour).Unix()}), status: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"name": "kai"}), status: http.StatusUnauthorized},
		{name: "other algorithm", header: "Bearer " + sign(t, jwt.SigningMethodHS384, []byte(secret), jwt.MapClaims{"sub": "kai"}), status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(b))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{coach.ErrEmptyMessage, http.StatusBadRequest},
		{&ValidationError{Fields: map[string]string{"message": "required"}}, http.StatusBadRequest},
		{fmt.Errorf("%w: date", service.ErrInvalidRequest), http.StatusBadRequest},
		{coach.ErrUnknownUser, http.StatusNotFound},
		{fmt.Errorf("%w: kai", lock.ErrNotAcquired), http.StatusConflict},
		{fmt.Errorf("%w: items", coach.ErrExtractionValidationFailed), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: timeout", coach.ErrClassificationFailed), http.StatusBadGateway},
		{fmt.Errorf("%w: reply", coach.ErrUpstreamGenerationFailed), http.StatusBadGateway},
		{fiber.ErrUnprocessableEntity, http.StatusUnprocessableEntity},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/validation", func(c *fiber.Ctx) error {
		return ValidateRequest(struct {
			Message string `json:"message" validate:"required"`
		}{})
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("password=hunter2")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/validation", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, map[string]interface{}{"message": "required"}, body.Errors)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "hunter2")
}

func TestValidateRequest_NestedFieldNames(t *testing.T) {
	type item struct {
		Name string `json:"name" validate:"required"`
	}
	type req struct {
		Items []item `json:"items" validate:"required,min=1,dive"`
	}

	err := ValidateRequest(req{Items: []item{{Name: "ok"}, {}}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"items[1].name": "required"}, verr.Fields)

	err = ValidateRequest(req{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["items"])
}
