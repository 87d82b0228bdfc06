package server

import (
	"context"
	"dm-chat/domain"
	"dm-chat/dto"
	"dm-chat/errors"
	"dm-chat/services"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ChatHandler struct {
	chat services.IChatService
	log  *slog.Logger
}

func NewChatHandler(chat services.IChatService, log *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

type createRoomBody struct {
	AcceptorID     string  `json:"acceptorId"`
	InitialMessage *string `json:"initialMessage"`
}

type sendMessageBody struct {
	Content         string            `json:"content"`
	ParentMessageID *domain.MessageID `json:"parentMessageId"`
}

type editMessageBody struct {
	Content string `json:"content"`
}

type markReadBody struct {
	MessageID domain.MessageID `json:"messageId"`
}

type listMessagesQuery struct {
	Limit          int     `form:"limit"`
	Before         *uint64 `form:"before"`
	IncludeDeleted *bool   `form:"includeDeleted"`
}

func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var body createRoomBody
	if !h.bind(c, &body) {
		return
	}
	view, err := h.chat.CreateRoom(c.Request.Context(), services.CreateRoomRequest{
		CreatorID:      callerOf(c).UserID,
		AcceptorID:     domain.UserID(body.AcceptorID),
		InitialMessage: body.InitialMessage,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"room": toRoomView(view)})
}

func (h *ChatHandler) GetRoom(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	view, err := h.chat.GetRoom(c.Request.Context(), roomID, callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"room": toRoomView(view)})
}

func (h *ChatHandler) ListSubscribedRooms(c *gin.Context) {
	views, err := h.chat.ListSubscribedRooms(c.Request.Context(), callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"rooms": lo.Map(views, toRoomViewAt)})
}

func (h *ChatHandler) ListUnsubscribedRooms(c *gin.Context) {
	views, err := h.chat.ListUnsubscribedRooms(c.Request.Context(), callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"rooms": lo.Map(views, toRoomViewAt)})
}

func (h *ChatHandler) ListLeftRooms(c *gin.Context) {
	views, err := h.chat.ListLeftRooms(c.Request.Context(), callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"rooms": lo.Map(views, toRoomViewAt)})
}

func (h *ChatHandler) Subscribe(c *gin.Context) {
	h.changeSubscription(c, h.chat.Subscribe)
}

func (h *ChatHandler) Unsubscribe(c *gin.Context) {
	h.changeSubscription(c, h.chat.Unsubscribe)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	var body sendMessageBody
	if !h.bind(c, &body) {
		return
	}
	message, err := h.chat.SendMessage(c.Request.Context(), services.SendMessageRequest{
		RoomID:   roomID,
		AuthorID: callerOf(c).UserID,
		Content:  body.Content,
		ParentID: body.ParentMessageID,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"message": dto.FromMessage(message)})
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, ok := h.messageID(c)
	if !ok {
		return
	}
	var body editMessageBody
	if !h.bind(c, &body) {
		return
	}
	message, err := h.chat.EditMessage(c.Request.Context(), services.EditMessageRequest{
		MessageID: messageID,
		CallerID:  callerOf(c).UserID,
		Content:   body.Content,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"message": dto.FromMessage(message)})
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := h.messageID(c)
	if !ok {
		return
	}
	message, err := h.chat.DeleteMessage(c.Request.Context(), messageID, callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"message": dto.FromMessage(message)})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	var query listMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}
	page, err := h.chat.ListMessages(c.Request.Context(), services.ListMessagesRequest{
		RoomID:         roomID,
		CallerID:       callerOf(c).UserID,
		Limit:          query.Limit,
		Before:         (*domain.MessageID)(query.Before),
		IncludeDeleted: query.IncludeDeleted,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, dto.MessagePage{
		Messages:   dto.FromMessages(page.Messages),
		NextCursor: page.NextCursor,
		TotalCount: page.TotalCount,
	})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	var body markReadBody
	if !h.bind(c, &body) {
		return
	}
	room, err := h.chat.MarkRead(c.Request.Context(), services.MarkReadRequest{
		RoomID:    roomID,
		CallerID:  callerOf(c).UserID,
		MessageID: body.MessageID,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"room": dto.FromRoom(room)})
}

// MarkUnread reads the flag from the path, e.g. PATCH /chat/unread/3/true.
func (h *ChatHandler) MarkUnread(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	unread, err := strconv.ParseBool(c.Param("status"))
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid status %q", errors.ErrValidation, c.Param("status")))
		return
	}
	room, err := h.chat.MarkUnread(c.Request.Context(), services.MarkUnreadRequest{
		RoomID:   roomID,
		CallerID: callerOf(c).UserID,
		Unread:   unread,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"room": dto.FromRoom(room)})
}

type subscriptionChange func(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (domain.Room, error)

func (h *ChatHandler) changeSubscription(c *gin.Context, change subscriptionChange) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}
	room, err := change(c.Request.Context(), roomID, callerOf(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"room": dto.FromRoom(room)})
}

func (h *ChatHandler) bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: malformed body: %v", errors.ErrValidation, err))
		return false
	}
	return true
}

func (h *ChatHandler) roomID(c *gin.Context) (domain.RoomID, bool) {
	id, ok := h.pathID(c)
	return domain.RoomID(id), ok
}

func (h *ChatHandler) messageID(c *gin.Context) (domain.MessageID, bool) {
	id, ok := h.pathID(c)
	return domain.MessageID(id), ok
}

func (h *ChatHandler) pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, h.log, fmt.Errorf("%w: invalid identifier %q", errors.ErrValidation, c.Param("id")))
		return 0, false
	}
	return id, true
}

func toRoomView(view services.RoomView) dto.RoomView {
	return dto.FromRoomView(view.Room, view.LastMessage, view.UnreadMessages)
}

func toRoomViewAt(view services.RoomView, _ int) dto.RoomView {
	return toRoomView(view)
}
