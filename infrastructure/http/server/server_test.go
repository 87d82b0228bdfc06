package server

import (
	"bytes"
	"context"
	"dm-chat/auth"
	"dm-chat/domain"
	"dm-chat/errors"
	"dm-chat/mocks"
	"dm-chat/repositories"
	"dm-chat/runtime"
	"dm-chat/services"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticResolver struct {
	caller auth.Caller
}

func (r staticResolver) Resolve(_ context.Context, _, session string) (auth.Caller, error) {
	return auth.Caller{UserID: r.caller.UserID, Session: session}, nil
}

func mockedRouter(t *testing.T) (*gin.Engine, *mocks.MockIChatService) {
	gin.SetMode(gin.TestMode)
	chat := mocks.NewMockIChatService(gomock.NewController(t))
	router := NewRouter(logs.GetLoggerFromLevel(slog.LevelDebug), Dependencies{
		Chat:     chat,
		Identity: staticResolver{caller: auth.Caller{UserID: "demir"}},
		Registry: runtime.NewRegistry(),
	})
	return router, chat
}

func serve(router *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, response) {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Session", "session-1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	var res response
	_ = json.Unmarshal(recorder.Body.Bytes(), &res)
	return recorder, res
}

func TestRouter_Maps_Core_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		message  string
	}{
		{"storage conflict is retryable", fmt.Errorf("commit: %w", errors.ErrStorageConflict), http.StatusServiceUnavailable, "commit: storage conflict"},
		{"not found", errors.ErrNotFound, http.StatusNotFound, "not found"},
		{"forbidden", errors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"existing room", errors.RoomExistsError{RoomID: 4}, http.StatusConflict, "room already exists: room 4"},
		{"unknown failure is hidden", fmt.Errorf("badger closed"), http.StatusInternalServerError, "internal error"},
		{"client gone", fmt.Errorf("get room: %w", context.Canceled), 499, "get room: context canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "context deadline exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			router, chat := mockedRouter(t)
			chat.EXPECT().GetRoom(gomock.Any(), domain.RoomID(7), domain.UserID("demir")).
				Return(services.RoomView{}, tt.err)

			recorder, res := serve(router, http.MethodGet, "/chat/room/7", "")

			req.Equal(tt.expected, recorder.Code)
			req.Equal("error", res.Status)
			req.Equal(tt.message, res.Message)
		})
	}
}

func TestRouter_Client_Abort_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)
	var logged bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logged, &slog.HandlerOptions{Level: slog.LevelDebug}))
	chat := mocks.NewMockIChatService(gomock.NewController(t))
	router := NewRouter(log, Dependencies{
		Chat:     chat,
		Identity: staticResolver{caller: auth.Caller{UserID: "demir"}},
		Registry: runtime.NewRegistry(),
	})

	// Given the client went away while the core was working
	chat.EXPECT().ListSubscribedRooms(gomock.Any(), domain.UserID("demir")).
		Return(nil, fmt.Errorf("list rooms: %w", context.Canceled))

	recorder, _ := serve(router, http.MethodGet, "/chat/rooms", "")

	// Then it is reported as abandoned and only traced at debug level
	req.Equal(errors.StatusClientClosedRequest, recorder.Code)
	req.Contains(logged.String(), "Request abandoned")
	req.NotContains(logged.String(), "level=ERROR")
}

func TestRouter_Builds_Requests_From_Caller(t *testing.T) {
	req := require.New(t)
	router, chat := mockedRouter(t)
	parent := domain.MessageID(3)

	// Given the caller resolved from the request
	chat.EXPECT().SendMessage(gomock.Any(), services.SendMessageRequest{
		RoomID: 9, AuthorID: "demir", Content: "hello", ParentID: &parent,
	}).DoAndReturn(func(ctx context.Context, r services.SendMessageRequest) (domain.Message, error) {
		caller, ok := auth.CallerFromContext(ctx)
		req.True(ok)
		req.Equal("session-1", caller.Session)
		return domain.Message{ID: 10, RoomID: r.RoomID, AuthorID: r.AuthorID, Content: r.Content, ParentID: r.ParentID}, nil
	})

	// When a message is sent
	recorder, res := serve(router, http.MethodPost, "/chat/message/9", `{"content":"hello","parentMessageId":3}`)

	// Then the author comes from the identity, not the body
	req.Equal(http.StatusCreated, recorder.Code)
	req.Equal("success", res.Status)
	req.JSONEq(`{"message":{"id":10,"roomId":9,"authorId":"demir","content":"hello","parentMessageId":3,
		"createdAt":"0001-01-01T00:00:00Z","deleted":false}}`, string(res.Data))
}

func TestRouter_Validates_Before_Calling_Core(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"malformed json", http.MethodPost, "/chat/createRoom", `{"acceptorId":`},
		{"negative id", http.MethodPatch, "/chat/subscribe/-1", ""},
		{"wrong type", http.MethodPatch, "/chat/read/1", `{"messageId":"three"}`},
		{"bad flag", http.MethodGet, "/chat/message/1?includeDeleted=maybe", ""},
		{"bad unread status", http.MethodPatch, "/chat/unread/1/maybe", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := mockedRouter(t)
			recorder, res := serve(router, tt.method, tt.target, tt.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			require.Equal(t, "error", res.Status)
		})
	}
}

func TestRouter_Marks_Room_Unread(t *testing.T) {
	req := require.New(t)
	router, chat := mockedRouter(t)

	room := domain.NewRoom(4, "demir", "eddie", time.Time{})
	room.Members[0].IsUnread = true
	chat.EXPECT().MarkUnread(gomock.Any(), services.MarkUnreadRequest{RoomID: 4, CallerID: "demir", Unread: true}).
		Return(room, nil)

	recorder, res := serve(router, http.MethodPatch, "/chat/unread/4/true", "")

	req.Equal(http.StatusOK, recorder.Code)
	var data roomData
	req.NoError(json.Unmarshal(res.Data, &data))
	req.True(data.Room.Members[0].IsUnread)
}

func TestRouter_Lists_Messages_With_Query(t *testing.T) {
	req := require.New(t)
	router, chat := mockedRouter(t)
	before := domain.MessageID(40)
	cursor := domain.MessageID(35)
	includeDeleted := false

	chat.EXPECT().ListMessages(gomock.Any(), services.ListMessagesRequest{
		RoomID: 2, CallerID: "demir", Limit: 5, Before: &before, IncludeDeleted: &includeDeleted,
	}).Return(repositories.MessagePage{NextCursor: &cursor, TotalCount: 12}, nil)

	recorder, res := serve(router, http.MethodGet, "/chat/message/2?limit=5&before=40&includeDeleted=false", "")

	req.Equal(http.StatusOK, recorder.Code)
	req.JSONEq(`{"messages":[],"nextCursor":35,"totalCount":12}`, string(res.Data))
}

func TestRouter_Health_And_Metrics(t *testing.T) {
	req := require.New(t)
	a := setupAPI(t)

	code, res := a.do(t, http.MethodGet, "/health", "", nil)
	req.Equal(http.StatusOK, code)
	req.Equal("success", res.Status)

	metrics, err := http.Get(a.url + "/metrics")
	req.NoError(err)
	defer metrics.Body.Close()
	req.Equal(http.StatusOK, metrics.StatusCode)
	var body bytes.Buffer
	_, err = body.ReadFrom(metrics.Body)
	req.NoError(err)
	req.Contains(body.String(), `dmchat_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
