//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"cmp"
	"context"
	"dm-chat/access"
	"dm-chat/concurrency"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"dm-chat/errors"
	"dm-chat/moderation"
	"dm-chat/repositories"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
)

type IChatService interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomView, error)
	GetRoom(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (RoomView, error)
	ListSubscribedRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error)
	ListUnsubscribedRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error)
	ListLeftRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error)
	Subscribe(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (domain.Room, error)
	Unsubscribe(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (domain.Room, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (domain.Message, error)
	EditMessage(ctx context.Context, req EditMessageRequest) (domain.Message, error)
	DeleteMessage(ctx context.Context, messageID domain.MessageID, callerID domain.UserID) (domain.Message, error)
	ListMessages(ctx context.Context, req ListMessagesRequest) (repositories.MessagePage, error)
	MarkRead(ctx context.Context, req MarkReadRequest) (domain.Room, error)
	MarkUnread(ctx context.Context, req MarkUnreadRequest) (domain.Room, error)
}

// RoomView is a room as seen by one of its participants.
type RoomView struct {
	Room           domain.Room
	LastMessage    *domain.Message
	UnreadMessages int
}

type ChatConfig struct {
	MaxContentLength int
	DefaultPageSize  int
	MaxPageSize      int
}

// UserDirectory tells whether an identifier belongs to a known user.
type UserDirectory interface {
	UserExists(ctx context.Context, id domain.UserID) (bool, error)
}

type ChatService struct {
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	users    UserDirectory
	censor   moderation.Censorer
	locks    *concurrency.KeyedMutex
	events   chan<- event.DomainEvent
	config   ChatConfig
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*ChatService)

// WithUserDirectory makes CreateRoom reject acceptors unknown to the directory.
func WithUserDirectory(users UserDirectory) Option {
	return func(s *ChatService) { s.users = users }
}

func WithCensor(censor moderation.Censorer) Option {
	return func(s *ChatService) { s.censor = censor }
}

// WithEvents publishes every successful mutation on events.
// Publication never blocks: events are dropped when the channel is full.
func WithEvents(events chan<- event.DomainEvent) Option {
	return func(s *ChatService) { s.events = events }
}

func WithClock(now func() time.Time) Option {
	return func(s *ChatService) { s.now = now }
}

func NewChatService(rooms repositories.IRoomRepository, messages repositories.IMessageRepository,
	config ChatConfig, log *slog.Logger, opts ...Option) *ChatService {
	s := &ChatService{
		rooms:    rooms,
		messages: messages,
		censor:   moderation.Passthrough{},
		locks:    concurrency.NewKeyedMutex(),
		config:   config,
		log:      log,
		now:      func() time.Time { return time.Now().UTC().Round(0) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRoom opens a room between the caller and the acceptor. The pair lock is held
// through the storage transaction, which also enforces uniqueness on its own.
func (s *ChatService) CreateRoom(ctx context.Context, req CreateRoomRequest) (RoomView, error) {
	if err := validateCreateRoom(req); err != nil {
		return RoomView{}, err
	}
	var initial *domain.Message
	now := s.now()
	if req.InitialMessage != nil {
		content, err := s.prepareContent(*req.InitialMessage)
		if err != nil {
			return RoomView{}, err
		}
		initial = &domain.Message{AuthorID: req.CreatorID, Content: content, CreatedAt: now}
	}
	if s.users != nil {
		exists, err := s.users.UserExists(ctx, req.AcceptorID)
		if err != nil {
			return RoomView{}, err
		}
		if !exists {
			return RoomView{}, fmt.Errorf("%w: unknown acceptor %s", errors.ErrInvalidParticipants, req.AcceptorID)
		}
	}

	pair := domain.NewPairKey(req.CreatorID, req.AcceptorID)
	unlock, err := s.locks.Lock(ctx, "pair:"+pair.String())
	if err != nil {
		return RoomView{}, err
	}
	defer unlock()

	room, initial, err := s.rooms.CreateRoom(ctx, domain.NewRoom(0, req.CreatorID, req.AcceptorID, now), initial)
	if err != nil {
		return RoomView{}, err
	}
	s.log.Info("Room created", "room_id", room.ID, "creator", req.CreatorID, "acceptor", req.AcceptorID)
	s.publish(event.RoomCreated{Room: room, At: now})
	return RoomView{Room: room, LastMessage: initial}, nil
}

func (s *ChatService) GetRoom(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (RoomView, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return RoomView{}, err
	}
	if err = access.CanRead(room, callerID); err != nil {
		return RoomView{}, err
	}
	return s.view(ctx, room, callerID)
}

func (s *ChatService) ListSubscribedRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error) {
	return s.listRooms(ctx, callerID, domain.Subscription.IsSubscribed)
}

// ListUnsubscribedRooms returns the pending invitations: rooms the caller never answered.
func (s *ChatService) ListUnsubscribedRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error) {
	return s.listRooms(ctx, callerID, func(member domain.Subscription) bool {
		return !member.IsSubscribed() && member.IsNew
	})
}

// ListLeftRooms returns the rooms the caller unsubscribed from or declined.
func (s *ChatService) ListLeftRooms(ctx context.Context, callerID domain.UserID) ([]RoomView, error) {
	return s.listRooms(ctx, callerID, func(member domain.Subscription) bool {
		return !member.IsSubscribed() && !member.IsNew
	})
}

func (s *ChatService) listRooms(ctx context.Context, callerID domain.UserID,
	keep func(member domain.Subscription) bool) ([]RoomView, error) {
	rooms, err := s.rooms.ListRoomsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	rooms = lo.Filter(rooms, func(room domain.Room, _ int) bool {
		member, ok := room.Member(callerID)
		return ok && keep(*member)
	})
	// Most recent activity first
	slices.SortFunc(rooms, func(a, b domain.Room) int {
		if c := b.BumpedAt.Compare(a.BumpedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := s.view(ctx, room, callerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ChatService) Subscribe(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (domain.Room, error) {
	room, changed, err := s.updateSubscription(ctx, roomID, callerID, (*domain.Subscription).Subscribe)
	if err != nil {
		return domain.Room{}, err
	}
	if changed {
		s.log.Debug("Room subscribed", "room_id", roomID, "user_id", callerID)
		s.publish(event.RoomSubscribed{Room: room, UserID: callerID, At: s.now()})
	}
	return room, nil
}

// Unsubscribe keeps the room and its history: the pair stays bound to it.
func (s *ChatService) Unsubscribe(ctx context.Context, roomID domain.RoomID, callerID domain.UserID) (domain.Room, error) {
	room, changed, err := s.updateSubscription(ctx, roomID, callerID, (*domain.Subscription).Unsubscribe)
	if err != nil {
		return domain.Room{}, err
	}
	if changed {
		s.log.Debug("Room unsubscribed", "room_id", roomID, "user_id", callerID)
		s.publish(event.RoomUnsubscribed{Room: room, UserID: callerID, At: s.now()})
	}
	return room, nil
}

func (s *ChatService) updateSubscription(ctx context.Context, roomID domain.RoomID, callerID domain.UserID,
	transition func(*domain.Subscription) bool) (domain.Room, bool, error) {
	unlock, err := s.lockRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, false, err
	}
	defer unlock()

	changed := false
	room, err := s.rooms.UpdateRoom(ctx, roomID, func(room *domain.Room) error {
		if err := access.CanRead(*room, callerID); err != nil {
			return err
		}
		member, _ := room.Member(callerID)
		changed = transition(member)
		return nil
	})
	return room, changed, err
}

func (s *ChatService) SendMessage(ctx context.Context, req SendMessageRequest) (domain.Message, error) {
	if err := validateRequest(req); err != nil {
		return domain.Message{}, err
	}
	content, err := s.prepareContent(req.Content)
	if err != nil {
		return domain.Message{}, err
	}

	unlock, err := s.lockRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Message{}, err
	}
	defer unlock()

	draft := domain.Message{
		RoomID:    req.RoomID,
		AuthorID:  req.AuthorID,
		Content:   content,
		ParentID:  req.ParentID,
		CreatedAt: s.now(),
	}
	message, room, err := s.messages.AppendMessage(ctx, draft, func(room domain.Room) error {
		return access.CanSend(room, req.AuthorID)
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("Message sent", "room_id", message.RoomID, "message_id", message.ID)
	s.publish(event.MessageSent{Message: message, Participants: room.Participants()})
	return message, nil
}

func (s *ChatService) EditMessage(ctx context.Context, req EditMessageRequest) (domain.Message, error) {
	if err := validateRequest(req); err != nil {
		return domain.Message{}, err
	}
	content, err := s.prepareContent(req.Content)
	if err != nil {
		return domain.Message{}, err
	}

	at := s.now()
	message, room, err := s.mutateMessage(ctx, req.MessageID, req.CallerID, func(message *domain.Message) {
		message.Edit(content, at)
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.publish(event.MessageEdited{Message: message, Participants: room.Participants(), At: at})
	return message, nil
}

// DeleteMessage tombstones the message. The stored content is kept but never returned.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID domain.MessageID,
	callerID domain.UserID) (domain.Message, error) {
	at := s.now()
	message, room, err := s.mutateMessage(ctx, messageID, callerID, func(message *domain.Message) {
		message.Delete(at)
	})
	if err != nil {
		return domain.Message{}, err
	}
	redacted := message.Redacted()
	s.publish(event.MessageDeleted{Message: redacted, Participants: room.Participants(), At: at})
	return redacted, nil
}

// mutateMessage applies an author-only change to a live message under its room lock.
func (s *ChatService) mutateMessage(ctx context.Context, messageID domain.MessageID, callerID domain.UserID,
	mutate func(message *domain.Message)) (domain.Message, domain.Room, error) {
	current, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	unlock, err := s.lockRoom(ctx, current.RoomID)
	if err != nil {
		return domain.Message{}, domain.Room{}, err
	}
	defer unlock()

	return s.messages.UpdateMessage(ctx, messageID, func(room domain.Room, message *domain.Message) error {
		if message.Deleted {
			return fmt.Errorf("message %d: %w", message.ID, errors.ErrNotFound)
		}
		if err := access.CanMutate(*message, callerID); err != nil {
			return err
		}
		mutate(message)
		return nil
	})
}

// ListMessages returns a page of the room log in creation order. Tombstones are
// redacted, or skipped when IncludeDeleted is false.
func (s *ChatService) ListMessages(ctx context.Context, req ListMessagesRequest) (repositories.MessagePage, error) {
	if err := validateRequest(req); err != nil {
		return repositories.MessagePage{}, err
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return repositories.MessagePage{}, err
	}
	if err = access.CanRead(room, req.CallerID); err != nil {
		return repositories.MessagePage{}, err
	}

	page, err := s.messages.ListMessages(ctx, req.RoomID, repositories.MessageQuery{
		Limit:          s.pageSize(req.Limit),
		Before:         req.Before,
		IncludeDeleted: req.IncludeDeleted == nil || *req.IncludeDeleted,
	})
	if err != nil {
		return repositories.MessagePage{}, err
	}
	page.Messages = lo.Map(page.Messages, func(message domain.Message, _ int) domain.Message {
		return message.Redacted()
	})
	return page, nil
}

// MarkRead moves the caller's read marker forward to a message of the room.
func (s *ChatService) MarkRead(ctx context.Context, req MarkReadRequest) (domain.Room, error) {
	if err := validateRequest(req); err != nil {
		return domain.Room{}, err
	}
	unlock, err := s.lockRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Room{}, err
	}
	defer unlock()

	// Membership first, so outsiders cannot tell whether a message exists
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Room{}, err
	}
	if err = access.CanRead(room, req.CallerID); err != nil {
		return domain.Room{}, err
	}
	message, err := s.messages.GetMessage(ctx, req.MessageID)
	if err != nil {
		return domain.Room{}, err
	}
	changed := false
	room, err = s.rooms.UpdateRoom(ctx, req.RoomID, func(room *domain.Room) error {
		if err := access.CanRead(*room, req.CallerID); err != nil {
			return err
		}
		if message.RoomID != room.ID {
			return fmt.Errorf("message %d does not belong to room %d: %w", message.ID, room.ID, errors.ErrValidation)
		}
		member, _ := room.Member(req.CallerID)
		changed = member.MarkRead(message.ID)
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	if changed {
		s.publish(event.LastReadUpdated{
			Room:              room.ID,
			ReaderID:          req.CallerID,
			LastReadMessageID: message.ID,
			Participants:      room.Participants(),
			At:                s.now(),
		})
	}
	return room, nil
}

// MarkUnread sets or clears the caller's manual unread flag on a room.
func (s *ChatService) MarkUnread(ctx context.Context, req MarkUnreadRequest) (domain.Room, error) {
	if err := validateRequest(req); err != nil {
		return domain.Room{}, err
	}
	room, changed, err := s.updateSubscription(ctx, req.RoomID, req.CallerID, func(member *domain.Subscription) bool {
		return member.MarkUnread(req.Unread)
	})
	if err != nil {
		return domain.Room{}, err
	}
	if changed {
		s.log.Debug("Unread flag updated", "room_id", room.ID, "user_id", req.CallerID, "unread", req.Unread)
		s.publish(event.UnreadFlagUpdated{Room: room.ID, UserID: req.CallerID, Unread: req.Unread, At: s.now()})
	}
	return room, nil
}

func (s *ChatService) view(ctx context.Context, room domain.Room, callerID domain.UserID) (RoomView, error) {
	view := RoomView{Room: room}
	if room.LastMessageID != nil {
		last, err := s.messages.GetMessage(ctx, *room.LastMessageID)
		if err != nil {
			return RoomView{}, err
		}
		last = last.Redacted()
		view.LastMessage = &last
	}
	member, _ := room.Member(callerID)
	unread, err := s.messages.CountUnread(ctx, room.ID, callerID, member.LastReadMessageID)
	if err != nil {
		return RoomView{}, err
	}
	view.UnreadMessages = unread
	return view, nil
}

func (s *ChatService) prepareContent(content string) (string, error) {
	if err := checkContent(content, s.config.MaxContentLength); err != nil {
		return "", err
	}
	censored, words := s.censor.Censor(content)
	if len(words) > 0 {
		s.log.Info("Censored words in message", "count", len(words))
	}
	return censored, nil
}

func (s *ChatService) pageSize(limit int) int {
	if limit == 0 {
		limit = s.config.DefaultPageSize
	}
	if s.config.MaxPageSize > 0 && limit > s.config.MaxPageSize {
		limit = s.config.MaxPageSize
	}
	return limit
}

func (s *ChatService) lockRoom(ctx context.Context, roomID domain.RoomID) (func(), error) {
	return s.locks.Lock(ctx, fmt.Sprintf("room:%d", roomID))
}

func (s *ChatService) publish(e event.DomainEvent) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- e:
	default:
		s.log.Warn("Event channel full, event dropped", "type", e.Type(), "room_id", e.RoomID())
	}
}
