package model

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"not null" json:"-"`
	Role           string     `gorm:"not null;default:'user'" json:"role"`
	IsVerified     bool       `gorm:"not null;default:false" json:"is_verified"`
	IsApproved     bool       `gorm:"not null;default:false" json:"is_approved"`
	IsBlocked      bool       `gorm:"not null;default:false" json:"is_blocked"`
	OtpCode        *string    `gorm:"index" json:"-"`
	OtpExpiresAt   *time.Time `json:"-"`
	OtpAttempts    int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	IsApproved bool   `json:"is_approved"`
	IsBlocked  bool   `json:"is_blocked"`
}

// ToResponse strips credential and OTP fields.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsApproved: u.IsApproved,
		IsBlocked:  u.IsBlocked,
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOtpInput struct {
	Email   string `json:"email" validate:"required,email"`
	OtpCode string `json:"otp_code" validate:"required,len=6"`
}

type ResendOtpInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type BlockInput struct {
	IsBlocked *bool `json:"is_blocked" validate:"required"`
}
