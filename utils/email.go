package utils

import (
	"fmt"
	"log"
	"strconv"

	"event_hub/config"

	"gopkg.in/gomail.v2"
)

func sendMail(to, subject, body string) error {
	host := config.Config("SMTP_HOST")
	port, _ := strconv.Atoi(config.ConfigDefault("SMTP_PORT", "587"))
	username := config.Config("SMTP_USERNAME")
	password := config.Config("SMTP_PASSWORD")
	from := config.Config("SMTP_FROM")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, username, password)
	return d.DialAndSend(m)
}

// SendOtpEmail delivers the account-verification code (async).
func SendOtpEmail(to, otpCode, username string, expireMinutes int) {
	go func() {
		body := fmt.Sprintf(`Hello %s,

Your verification code is:

    *** %s ***

This code expires in %d minutes.

If you did not register, please ignore this email.`, username, otpCode, expireMinutes)

		if err := sendMail(to, "Verify Your Account - OTP Code", body); err != nil {
			log.Printf("failed to send OTP email to %s: %v", to, err)
		}
	}()
}

// SendPasswordResetEmail delivers the password-reset code (async).
func SendPasswordResetEmail(to, otpCode, username string, expireMinutes int) {
	go func() {
		body := fmt.Sprintf(`Hello %s,

You requested a password reset. Your code is:

    *** %s ***

This code expires in %d minutes.

If you did not request a password reset, please ignore this email.`, username, otpCode, expireMinutes)

		if err := sendMail(to, "Password Reset Request - OTP Code", body); err != nil {
			log.Printf("failed to send password reset email to %s: %v", to, err)
		}
	}()
}
