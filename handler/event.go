package handler

import (
	"errors"
	"log"
	"time"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func toEventOut(event *model.Event) model.EventOut {
	out := model.EventOut{
		ID:               event.ID,
		ManagerId:        event.ManagerId,
		Title:            event.Title,
		Slug:             event.Slug,
		Description:      event.Description,
		Location:         event.Location,
		Latitude:         event.Latitude,
		Longitude:        event.Longitude,
		TicketPrice:      event.TicketPrice,
		TicketLimit:      event.TicketLimit,
		TicketsSold:      event.TicketsSold,
		TicketsAvailable: event.TicketsAvailable(),
		EventDate:        event.EventDate,
		IsActive:         event.IsActive,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
		Images:           make([]model.EventImageOut, 0, len(event.Images)),
	}
	if event.Manager != nil {
		out.ManagerUsername = event.Manager.Username
	}
	for _, img := range event.Images {
		out.Images = append(out.Images, model.EventImageOut{
			ImageUrl: img.ImageUrl,
			PublicId: img.PublicId,
		})
	}
	return out
}

// ListEvents returns active events, paged, with optional ?search= on
// title and location.
func ListEvents(c *fiber.Ctx) error {
	page, limit := utils.PageParams(c, 12)

	query := database.DB.Model(&model.Event{}).Where("is_active = ?", true)
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR location LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var events []model.Event
	if err := query.Preload("Images").Preload("Manager").
		Order("event_date ASC").
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

// GetEvent resolves one event by numeric id or slug.
func GetEvent(c *fiber.Ctx) error {
	param := c.Params("id")

	query := database.DB.Preload("Images").Preload("Manager")
	var event model.Event
	var err error
	if isNumeric(param) {
		err = query.Where("id = ?", param).First(&event).Error
	} else {
		err = query.Where("slug = ?", param).First(&event).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "OK", toEventOut(&event))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CreateEvent creates an event owned by the calling manager. Admins may
// create unowned events.
func CreateEvent(c *fiber.Ctx) error {
	claim, user, err := helper.GetInfoUserFromToken(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	input, ok := c.Locals("eventInput").(*model.EventCreateInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	event := model.Event{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		TicketPrice: input.TicketPrice,
		TicketLimit: input.TicketLimit,
		EventDate:   input.EventDate,
		IsActive:    true,
	}
	if !helper.IsAdmin(claim) && user != nil {
		event.ManagerId = &user.ID
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		slug, err := helper.GenerateUniqueEventSlug(tx, input.Title)
		if err != nil {
			return err
		}
		event.Slug = slug
		return tx.Create(&event).Error
	})
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusCreated, "Event created", toEventOut(&event))
}

// fetchOwnedEvent loads the event and enforces the owner-or-admin rule.
func fetchOwnedEvent(c *fiber.Ctx) (*model.Event, int, string) {
	claim, user, err := helper.GetInfoUserFromToken(c)
	if err != nil {
		return nil, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS
	}
	eventId, ok := c.Locals("inputId").(uint)
	if !ok {
		return nil, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS
	}

	var event model.Event
	if err := database.DB.Preload("Images").First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS
		}
		return nil, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR
	}

	if !helper.CanTouchEvent(claim, user, &event) {
		return nil, fiber.StatusForbidden, constants.ACCOUNT_NOT_PERMISSION
	}
	return &event, 0, ""
}

// UpdateEvent patches an event's mutable fields. Shrinking the ticket
// limit below tickets already sold is refused.
func UpdateEvent(c *fiber.Ctx) error {
	event, status, msg := fetchOwnedEvent(c)
	if event == nil {
		return utils.Fail(c, status, msg)
	}
	input, ok := c.Locals("eventUpdateInput").(*model.EventUpdateInput)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.EventDate != nil {
		if input.EventDate.Before(time.Now()) {
			return utils.Fail(c, fiber.StatusBadRequest, "event_date must be in the future")
		}
		updates["event_date"] = *input.EventDate
	}
	if input.TicketLimit != nil {
		if *input.TicketLimit < event.TicketsSold {
			return utils.Fail(c, fiber.StatusBadRequest, "ticket_limit cannot be below tickets already sold")
		}
		updates["ticket_limit"] = *input.TicketLimit
	}
	if len(updates) == 0 {
		return utils.Success(c, fiber.StatusOK, "Nothing to update", toEventOut(event))
	}

	if err := database.DB.Model(event).Updates(updates).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	if err := database.DB.Preload("Images").Preload("Manager").First(event, event.ID).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	return utils.Success(c, fiber.StatusOK, "Event updated", toEventOut(event))
}

// DeactivateEvent hides an event from listings without touching sold
// tickets.
func DeactivateEvent(c *fiber.Ctx) error {
	event, status, msg := fetchOwnedEvent(c)
	if event == nil {
		return utils.Fail(c, status, msg)
	}

	if err := database.DB.Model(event).Update("is_active", false).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	event.IsActive = false
	return utils.Success(c, fiber.StatusOK, "Event deactivated", toEventOut(event))
}

// DeleteEvent removes an event and its images. Events with sold tickets
// cannot be deleted, only deactivated.
func DeleteEvent(cld *cloudinary.Cloudinary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, status, msg := fetchOwnedEvent(c)
		if event == nil {
			return utils.Fail(c, status, msg)
		}
		if event.TicketsSold > 0 {
			return utils.Fail(c, fiber.StatusConflict, "Event has sold tickets; deactivate it instead")
		}

		for _, img := range event.Images {
			if err := helper.DeleteCloudinaryImage(c.Context(), cld, img.PublicId); err != nil {
				log.Printf("failed to delete image %s for event %d: %v", img.PublicId, event.ID, err)
			}
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventImage{}).Error; err != nil {
				return err
			}
			return tx.Delete(event).Error
		})
		if err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}
		return utils.Success(c, fiber.StatusOK, "Event deleted", nil)
	}
}

// MyEvents lists the calling manager's own events, active or not.
func MyEvents(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}

	page, limit := utils.PageParams(c, 12)

	var total int64
	if err := database.DB.Model(&model.Event{}).Where("manager_id = ?", user.ID).
		Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var events []model.Event
	if err := database.DB.Preload("Images").
		Where("manager_id = ?", user.ID).
		Order("event_date ASC").
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

// UploadEventImages attaches one or more images to an event via
// multipart form field "images".
func UploadEventImages(cld *cloudinary.Cloudinary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, status, msg := fetchOwnedEvent(c)
		if event == nil {
			return utils.Fail(c, status, msg)
		}

		form, err := c.MultipartForm()
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
		}
		files := form.File["images"]
		if len(files) == 0 {
			return utils.Fail(c, fiber.StatusBadRequest, "No images provided")
		}
		if len(event.Images)+len(files) > 5 {
			return utils.Fail(c, fiber.StatusBadRequest, "An event may carry at most 5 images")
		}

		uploaded := make([]model.EventImageOut, 0, len(files))
		order := int64(len(event.Images))
		for _, file := range files {
			url, publicId, err := helper.UploadEventImage(c.Context(), cld, file)
			if err != nil {
				return utils.Fail(c, fiber.StatusInternalServerError, "Image upload failed")
			}
			image := model.EventImage{
				EventId:      event.ID,
				ImageUrl:     url,
				PublicId:     publicId,
				DisplayOrder: order,
			}
			order++
			if err := database.DB.Create(&image).Error; err != nil {
				helper.DeleteCloudinaryImage(c.Context(), cld, publicId)
				return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
			}
			uploaded = append(uploaded, model.EventImageOut{ImageUrl: url, PublicId: publicId})
		}

		return utils.Success(c, fiber.StatusCreated, "Images uploaded", uploaded)
	}
}

// DeleteEventImage removes one image from an event and from storage.
func DeleteEventImage(cld *cloudinary.Cloudinary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, status, msg := fetchOwnedEvent(c)
		if event == nil {
			return utils.Fail(c, status, msg)
		}

		publicId := c.Query("public_id")
		if publicId == "" {
			return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
		}

		var image model.EventImage
		if err := database.DB.Where("event_id = ? AND public_id = ?", event.ID, publicId).
			First(&image).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
			}
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}

		if err := helper.DeleteCloudinaryImage(c.Context(), cld, publicId); err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, "Image delete failed")
		}
		if err := database.DB.Delete(&image).Error; err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}

		return utils.Success(c, fiber.StatusOK, "Image deleted", nil)
	}
}
