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

// RequestManagerRole lets a user apply to become an event manager. A
// rejected application may be resubmitted; a pending or approved one
// may not.
func RequestManagerRole(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	if user.Role == constants.ROLE_MANAGER {
		return utils.Fail(c, fiber.StatusBadRequest, "You are already a manager")
	}

	var existing model.EventManagerRequest
	err = database.DB.Where("user_id = ?", user.ID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Status == constants.REQUEST_PENDING {
			return utils.Fail(c, fiber.StatusConflict, "A request is already pending")
		}
		if existing.Status == constants.REQUEST_APPROVED {
			return utils.Fail(c, fiber.StatusConflict, "Your request was already approved")
		}
		// Rejected: reopen the same row.
		updates := map[string]interface{}{
			"status":       constants.REQUEST_PENDING,
			"requested_at": time.Now(),
			"reviewed_at":  nil,
			"reviewed_by":  nil,
		}
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}
		existing.Status = constants.REQUEST_PENDING
		return utils.Success(c, fiber.StatusOK, "Request resubmitted", toRequestOut(&existing, user))
	case errors.Is(err, gorm.ErrRecordNotFound):
		request := model.EventManagerRequest{
			UserId:      user.ID,
			Status:      constants.REQUEST_PENDING,
			RequestedAt: time.Now(),
		}
		if err := database.DB.Create(&request).Error; err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}
		return utils.Success(c, fiber.StatusCreated, "Request submitted", toRequestOut(&request, user))
	default:
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
}

// GetMyManagerRequest returns the caller's application, if any.
func GetMyManagerRequest(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}

	var request model.EventManagerRequest
	if err := database.DB.Where("user_id = ?", user.ID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	return utils.Success(c, fiber.StatusOK, "OK", toRequestOut(&request, user))
}

// ListManagerRequests returns applications for admin review, optionally
// filtered by ?status=.
func ListManagerRequests(c *fiber.Ctx) error {
	query := database.DB.Model(&model.EventManagerRequest{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []model.EventManagerRequest
	if err := query.Order("requested_at DESC").Find(&requests).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.ManagerRequestOut, 0, len(requests))
	for i := range requests {
		var user model.User
		database.DB.First(&user, requests[i].UserId)
		out = append(out, *toRequestOut(&requests[i], &user))
	}
	return utils.Success(c, fiber.StatusOK, "OK", out)
}

// ReviewManagerRequest approves or rejects a pending application.
// Approval promotes the user to an approved manager.
func ReviewManagerRequest(c *fiber.Ctx) error {
	claim, _, err := helper.GetInfoUserFromToken(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	requestId, ok := c.Locals("inputId").(uint)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}
	input, ok := c.Locals("reviewInput").(*model.ManagerReviewInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var request model.EventManagerRequest
	if err := database.DB.First(&request, requestId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	if request.Status != constants.REQUEST_PENDING {
		return utils.Fail(c, fiber.StatusBadRequest, "Request already reviewed")
	}

	now := time.Now()
	reviewer := claim.UserId
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"status":      input.Status,
			"reviewed_at": now,
			"reviewed_by": reviewer,
		}).Error; err != nil {
			return err
		}
		if input.Status == constants.REQUEST_APPROVED {
			return tx.Model(&model.User{}).Where("id = ?", request.UserId).
				Updates(map[string]interface{}{
					"role":        constants.ROLE_MANAGER,
					"is_approved": true,
				}).Error
		}
		return nil
	})
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	request.Status = input.Status
	request.ReviewedAt = &now
	request.ReviewedBy = &reviewer

	var user model.User
	database.DB.First(&user, request.UserId)
	return utils.Success(c, fiber.StatusOK, "Request "+input.Status, toRequestOut(&request, &user))
}

func toRequestOut(r *model.EventManagerRequest, user *model.User) *model.ManagerRequestOut {
	out := &model.ManagerRequestOut{
		ID:          r.ID,
		UserId:      r.UserId,
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		ReviewedAt:  r.ReviewedAt,
	}
	if user != nil && user.ID != 0 {
		out.Username = user.Username
		out.Email = user.Email
		out.Role = user.Role
	}
	return out
}
