package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"event_hub/helper"
	"event_hub/model"
	"event_hub/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	helper.JwtSecret = []byte("handler-test-secret")
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Post("/register", validate.Register(), Register)
	app.Post("/verify-otp", validate.VerifyOtp(), VerifyOtp)
	app.Post("/login", validate.Login(), Login)
	return app
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, envelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	db := useTestDB(t)
	app := newAuthApp()

	status, env := postJSON(t, app, "/register", fiber.Map{
		"username": "concertgoer",
		"email":    "goer@example.com",
		"password": "hunter22",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)

	// Login before verification is refused.
	status, _ = postJSON(t, app, "/login", fiber.Map{
		"email": "goer@example.com", "password": "hunter22",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	var user model.User
	require.NoError(t, db.Where("email = ?", "goer@example.com").First(&user).Error)
	require.NotNil(t, user.OtpCode)

	status, _ = postJSON(t, app, "/verify-otp", fiber.Map{
		"email": "goer@example.com", "otp_code": *user.OtpCode,
	})
	require.Equal(t, fiber.StatusOK, status)

	status, env = postJSON(t, app, "/login", fiber.Map{
		"email": "goer@example.com", "password": "hunter22",
	})
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)

	token, err := helper.ParseToken(data.AccessToken)
	require.NoError(t, err)
	claim, err := helper.ClaimFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claim.UserId)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := useTestDB(t)
	seeded := seedUser(t, db, "user")
	app := newAuthApp()

	status, _ := postJSON(t, app, "/register", fiber.Map{
		"username": "someone-else",
		"email":    seeded.Email,
		"password": "hunter22",
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestVerifyOtpAttemptCap(t *testing.T) {
	db := useTestDB(t)
	app := newAuthApp()

	_, env := postJSON(t, app, "/register", fiber.Map{
		"username": "bruteforced",
		"email":    "brute@example.com",
		"password": "hunter22",
	})
	require.True(t, env.Success)

	var user model.User
	require.NoError(t, db.Where("email = ?", "brute@example.com").First(&user).Error)

	wrong := "000000"
	if *user.OtpCode == wrong {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		status, _ := postJSON(t, app, "/verify-otp", fiber.Map{
			"email": "brute@example.com", "otp_code": wrong,
		})
		assert.Equal(t, fiber.StatusBadRequest, status, fmt.Sprintf("attempt %d", i+1))
	}

	// Sixth try is cut off even with the right code.
	status, _ := postJSON(t, app, "/verify-otp", fiber.Map{
		"email": "brute@example.com", "otp_code": *user.OtpCode,
	})
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestLoginBlockedUser(t *testing.T) {
	db := useTestDB(t)
	app := newAuthApp()

	hash, err := helper.HashPassword("hunter22")
	require.NoError(t, err)
	user := model.User{
		Username:       "banned",
		Email:          "banned@example.com",
		HashedPassword: hash,
		Role:           "user",
		IsVerified:     true,
		IsBlocked:      true,
	}
	require.NoError(t, db.Create(&user).Error)

	status, env := postJSON(t, app, "/login", fiber.Map{
		"email": "banned@example.com", "password": "hunter22",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, env.Success)
}
