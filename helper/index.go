package helper

import (
	"errors"
	"fmt"
	"os"
	"time"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = claim.Email
	claims["user_id"] = claim.UserId
	claims["role"] = claim.Role
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	return token.SignedString(JwtSecret)
}

// GenerateResetToken issues a short-lived token proving the reset OTP
// was verified for this email.
func GenerateResetToken(email string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = email
	claims["scope"] = "password_reset"
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(JwtSecret)
}

func VerifyResetToken(tokenString string) (string, error) {
	token, err := ParseToken(tokenString)
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired reset token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	if scope, _ := claims["scope"].(string); scope != "password_reset" {
		return "", errors.New("invalid token scope")
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", errors.New("invalid token subject")
	}
	return email, nil
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// ClaimFromToken extracts the identity claim from a parsed token.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}

	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	userId := uint(0)
	if id, ok := claims["user_id"].(float64); ok {
		userId = uint(id)
	}

	if email == "" {
		return model.TokenClaim{}, errors.New("token missing subject")
	}

	return model.TokenClaim{UserId: userId, Email: email, Role: role}, nil
}

// GetInfoUserFromToken resolves the request's bearer identity. The admin
// identity is virtual (env credentials, user id 0) and has no user row.
func GetInfoUserFromToken(c *fiber.Ctx) (model.TokenClaim, *model.User, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, nil, errors.New("missing token")
	}

	claim, err := ClaimFromToken(token)
	if err != nil {
		return model.TokenClaim{}, nil, err
	}

	if claim.Role == constants.ROLE_ADMIN && claim.UserId == 0 {
		return claim, nil, nil
	}

	var user model.User
	if err := database.DB.First(&user, claim.UserId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return claim, nil, ErrNotFound
		}
		return claim, nil, err
	}
	if user.IsBlocked {
		return claim, nil, errors.New("account is blocked")
	}

	return claim, &user, nil
}

// IsAdmin reports whether the claim carries the admin role.
func IsAdmin(claim model.TokenClaim) bool {
	return claim.Role == constants.ROLE_ADMIN
}

// CanManageEvents reports whether a user may create and run events.
func CanManageEvents(user *model.User) bool {
	return user != nil && user.Role == constants.ROLE_MANAGER && user.IsApproved
}

// CanTouchEvent applies the owner-or-admin rule for event mutation.
func CanTouchEvent(claim model.TokenClaim, user *model.User, event *model.Event) bool {
	if IsAdmin(claim) {
		return true
	}
	if !CanManageEvents(user) {
		return false
	}
	return event.ManagerId != nil && *event.ManagerId == user.ID
}
