package validate

import (
	"event_hub/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return body[model.RegisterInput]("registerInput")
}

func Login() fiber.Handler {
	return body[model.LoginInput]("loginInput")
}

func VerifyOtp() fiber.Handler {
	return body[model.VerifyOtpInput]("verifyOtpInput")
}

func ResendOtp() fiber.Handler {
	return body[model.ResendOtpInput]("resendOtpInput")
}

func ForgotPassword() fiber.Handler {
	return body[model.ForgotPasswordInput]("forgotPasswordInput")
}

func ResetPassword() fiber.Handler {
	return body[model.ResetPasswordInput]("resetPasswordInput")
}

func BlockUser() fiber.Handler {
	return body[model.BlockInput]("blockInput")
}

func ReviewManagerRequest() fiber.Handler {
	return body[model.ManagerReviewInput]("reviewInput")
}
