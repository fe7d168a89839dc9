package handler

import (
	"errors"
	"time"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	otpLength        = 6
	otpExpireMinutes = 10
	otpMaxAttempts   = 5
	resetTokenTTL    = 15 * time.Minute
)

// Register creates an unverified account and emails a one-time code.
func Register(c *fiber.Ctx) error {
	input, ok := c.Locals("registerInput").(*model.RegisterInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var count int64
	if err := database.DB.Model(&model.User{}).
		Where("email = ? OR username = ?", input.Email, input.Username).
		Count(&count).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	if count > 0 {
		return utils.Fail(c, fiber.StatusConflict, "Email or username already registered")
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	otp := utils.GenerateOtp(otpLength)
	expires := time.Now().Add(otpExpireMinutes * time.Minute)

	user := model.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		Role:           constants.ROLE_USER,
		OtpCode:        &otp,
		OtpExpiresAt:   &expires,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	utils.SendOtpEmail(user.Email, otp, user.Username, otpExpireMinutes)

	return utils.Success(c, fiber.StatusCreated,
		"Registration successful. Check your email for the verification code.", user.ToResponse())
}

// VerifyOtp confirms the emailed code and activates the account.
func VerifyOtp(c *fiber.Ctx) error {
	input, ok := c.Locals("verifyOtpInput").(*model.VerifyOtpInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if user.IsVerified {
		return utils.Fail(c, fiber.StatusBadRequest, "Account already verified")
	}

	if ok, status, msg := checkOtp(&user, input.OtpCode); !ok {
		return utils.Fail(c, status, msg)
	}

	updates := map[string]interface{}{
		"is_verified":    true,
		"otp_code":       nil,
		"otp_expires_at": nil,
		"otp_attempts":   0,
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "Account verified successfully", nil)
}

// checkOtp validates a submitted code against the user's stored one and
// counts failed attempts.
func checkOtp(user *model.User, code string) (bool, int, string) {
	if user.OtpCode == nil || user.OtpExpiresAt == nil {
		return false, fiber.StatusBadRequest, "No verification code pending"
	}
	if user.OtpAttempts >= otpMaxAttempts {
		return false, fiber.StatusTooManyRequests, "Too many attempts. Request a new code."
	}
	if time.Now().After(*user.OtpExpiresAt) {
		return false, fiber.StatusBadRequest, "Verification code expired"
	}
	if *user.OtpCode != code {
		database.DB.Model(user).UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1"))
		return false, fiber.StatusBadRequest, "Invalid verification code"
	}
	return true, 0, ""
}

// ResendOtp issues a fresh verification code for an unverified account.
func ResendOtp(c *fiber.Ctx) error {
	input, ok := c.Locals("resendOtpInput").(*model.ResendOtpInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	if user.IsVerified {
		return utils.Fail(c, fiber.StatusBadRequest, "Account already verified")
	}

	if err := issueOtp(&user); err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	utils.SendOtpEmail(user.Email, *user.OtpCode, user.Username, otpExpireMinutes)

	return utils.Success(c, fiber.StatusOK, "A new verification code has been sent", nil)
}

func issueOtp(user *model.User) error {
	otp := utils.GenerateOtp(otpLength)
	expires := time.Now().Add(otpExpireMinutes * time.Minute)
	user.OtpCode = &otp
	user.OtpExpiresAt = &expires

	return database.DB.Model(user).Updates(map[string]interface{}{
		"otp_code":       otp,
		"otp_expires_at": expires,
		"otp_attempts":   0,
	}).Error
}

// Login authenticates a verified account or the env-configured admin
// and returns a bearer token.
func Login(c *fiber.Ctx) error {
	input, ok := c.Locals("loginInput").(*model.LoginInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	// The admin identity is virtual: env credentials, no user row.
	if adminEmail := utils.AdminEmail(); adminEmail != "" &&
		input.Email == adminEmail && input.Password == utils.AdminPassword() {
		token, err := helper.GenerateAccessToken(model.TokenClaim{
			UserId: 0, Email: adminEmail, Role: constants.ROLE_ADMIN,
		})
		if err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}
		return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
			"access_token": token,
			"token_type":   "bearer",
			"role":         constants.ROLE_ADMIN,
		})
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if !helper.CheckPasswordHash(input.Password, user.HashedPassword) {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	if user.IsBlocked {
		return utils.Fail(c, fiber.StatusForbidden, constants.ACCOUNT_BLOCKED)
	}
	if !user.IsVerified {
		return utils.Fail(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_VERIFIED)
	}

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		UserId: user.ID, Email: user.Email, Role: user.Role,
	})
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.ToResponse(),
	})
}

// ForgotPassword emails a reset code to an existing account.
func ForgotPassword(c *fiber.Ctx) error {
	input, ok := c.Locals("forgotPasswordInput").(*model.ForgotPasswordInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if err := issueOtp(&user); err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	utils.SendPasswordResetEmail(user.Email, *user.OtpCode, user.Username, otpExpireMinutes)

	return utils.Success(c, fiber.StatusOK, "A password reset code has been sent", nil)
}

// VerifyResetOtp exchanges a valid reset code for a short-lived token
// that authorizes the actual password change.
func VerifyResetOtp(c *fiber.Ctx) error {
	input, ok := c.Locals("verifyOtpInput").(*model.VerifyOtpInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if ok, status, msg := checkOtp(&user, input.OtpCode); !ok {
		return utils.Fail(c, status, msg)
	}

	resetToken, err := helper.GenerateResetToken(user.Email, resetTokenTTL)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "Code verified", fiber.Map{
		"reset_token": resetToken,
	})
}

// ResetPassword sets a new password given a verified reset token.
func ResetPassword(c *fiber.Ctx) error {
	input, ok := c.Locals("resetPasswordInput").(*model.ResetPasswordInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	email, err := helper.VerifyResetToken(input.ResetToken)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid or expired reset token")
	}

	hashed, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	res := database.DB.Model(&model.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{
			"hashed_password": hashed,
			"otp_code":        nil,
			"otp_expires_at":  nil,
			"otp_attempts":    0,
		})
	if res.Error != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	if res.RowsAffected == 0 {
		return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
	}

	return utils.Success(c, fiber.StatusOK, "Password reset successfully", nil)
}

// GetCurrentUser returns the authenticated account's profile.
func GetCurrentUser(c *fiber.Ctx) error {
	claim, user, err := helper.GetInfoUserFromToken(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}

	if user == nil {
		return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
			"id":    0,
			"email": claim.Email,
			"role":  claim.Role,
		})
	}
	return utils.Success(c, fiber.StatusOK, "OK", user.ToResponse())
}
