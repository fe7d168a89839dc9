package handler

import (
	"errors"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MyChatRooms lists the caller's chatrooms with the latest message of
// each, buyer rooms and manager rooms alike.
func MyChatRooms(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}

	var rooms []model.Chatroom
	if err := database.DB.Preload("Event").
		Where("user_id = ? OR manager_id = ?", user.ID, user.ID).
		Order("id DESC").Find(&rooms).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.ChatRoomOut, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]

		otherId := room.UserId
		if user.ID == room.UserId {
			otherId = room.ManagerId
		}
		var other model.User
		database.DB.First(&other, otherId)

		entry := model.ChatRoomOut{
			RoomId:        room.ID,
			EventId:       room.EventId,
			EventTitle:    room.Event.Title,
			OtherUserId:   otherId,
			OtherUsername: other.Username,
		}

		var last model.ChatMessage
		if err := database.DB.Where("room_id = ?", room.ID).
			Order("id DESC").First(&last).Error; err == nil {
			entry.LastMessage = &last.Content
			entry.LastMessageTime = &last.CreatedAt
		}

		out = append(out, entry)
	}

	return utils.Success(c, fiber.StatusOK, "OK", out)
}

// fetchParticipantRoom loads a room the caller belongs to.
func fetchParticipantRoom(c *fiber.Ctx) (*model.Chatroom, *model.User, int, string) {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return nil, nil, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS
	}
	roomId, ok := c.Locals("inputId").(uint)
	if !ok {
		return nil, nil, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS
	}

	var room model.Chatroom
	if err := database.DB.First(&room, roomId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS
		}
		return nil, nil, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR
	}

	if user.ID != room.UserId && user.ID != room.ManagerId {
		return nil, nil, fiber.StatusForbidden, constants.ACCOUNT_NOT_PERMISSION
	}
	return &room, user, 0, ""
}

// RoomMessages pages a room's history backwards. ?before_id= is the
// keyset cursor; the response carries has_more and next_before_id for
// the next page.
func RoomMessages(c *fiber.Ctx) error {
	room, _, status, msg := fetchParticipantRoom(c)
	if room == nil {
		return utils.Fail(c, status, msg)
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var beforeId *uint
	if v := c.QueryInt("before_id", 0); v > 0 {
		beforeId = utils.Ptr(uint(v))
	}

	page, err := helper.ListRoomMessages(database.DB, room.ID, beforeId, limit)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	return utils.Success(c, fiber.StatusOK, "OK", page)
}

// MarkRoomRead flags every message addressed to the caller as read.
func MarkRoomRead(c *fiber.Ctx) error {
	room, user, status, msg := fetchParticipantRoom(c)
	if room == nil {
		return utils.Fail(c, status, msg)
	}

	if err := database.DB.Model(&model.ChatMessage{}).
		Where("room_id = ? AND recipient_id = ? AND is_read = ?", room.ID, user.ID, false).
		Update("is_read", true).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}
	return utils.Success(c, fiber.StatusOK, "Messages marked as read", nil)
}
