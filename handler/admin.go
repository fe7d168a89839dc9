package handler

import (
	"errors"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/model"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListUsers returns all accounts, paged, optionally filtered by ?role=
// or ?search= on username and email.
func ListUsers(c *fiber.Ctx) error {
	page, limit := utils.PageParams(c, 20)

	query := database.DB.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var users []model.User
	if err := query.Order("id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}

	return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
		"items": out,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}

// GetUserById returns one account.
func GetUserById(c *fiber.Ctx) error {
	userId, ok := c.Locals("inputId").(uint)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	return utils.Success(c, fiber.StatusOK, "OK", user.ToResponse())
}

// SetUserBlocked blocks or unblocks an account. Blocked users cannot
// log in; their existing tokens are refused at resolution time.
func SetUserBlocked(c *fiber.Ctx) error {
	userId, ok := c.Locals("inputId").(uint)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}
	input, ok := c.Locals("blockInput").(*model.BlockInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if err := database.DB.Model(&user).Update("is_blocked", *input.IsBlocked).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	user.IsBlocked = *input.IsBlocked

	message := "User unblocked"
	if user.IsBlocked {
		message = "User blocked"
	}
	return utils.Success(c, fiber.StatusOK, message, user.ToResponse())
}

// AdminDeleteUser removes an account together with the events it
// manages and their images. Ticket rows survive with a null user for
// the audit trail.
func AdminDeleteUser(c *fiber.Ctx) error {
	userId, ok := c.Locals("inputId").(uint)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var eventIds []uint
		if err := tx.Model(&model.Event{}).Where("manager_id = ?", user.ID).
			Pluck("id", &eventIds).Error; err != nil {
			return err
		}
		if len(eventIds) > 0 {
			if err := tx.Where("event_id IN ?", eventIds).Delete(&model.EventImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", eventIds).Delete(&model.Event{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.EventManagerRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "User deleted", nil)
}

// AdminListEvents returns every event, active or not.
func AdminListEvents(c *fiber.Ctx) error {
	page, limit := utils.PageParams(c, 20)

	query := database.DB.Model(&model.Event{})
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var events []model.Event
	if err := query.Preload("Images").Preload("Manager").
		Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&events).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.EventOut, 0, len(events))
	for i := range events {
		out = append(out, toEventOut(&events[i]))
	}

	return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
		"items": out,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}

// AdminListTickets returns every ticket in the system, newest first.
func AdminListTickets(c *fiber.Ctx) error {
	page, limit := utils.PageParams(c, 20)

	query := database.DB.Model(&model.Ticket{})
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var tickets []model.Ticket
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tickets).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.TicketOut, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketOut(&tickets[i], nil))
	}

	return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
		"items": out,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}
