package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "salas/pkg/errors"
	"salas/pkg/logger"
	"salas/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoomService struct {
	createFunc     func(ctx context.Context, room *model.Room) error
	getByIDFunc    func(ctx context.Context, id string) (*model.Room, error)
	getAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	findByNameFunc func(ctx context.Context, name string) ([]*model.Room, error)
	updateFunc     func(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	deleteFunc     func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomService) Create(ctx context.Context, room *model.Room) error {
	return m.createFunc(ctx, room)
}

func (m *mockRoomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRoomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	return m.getAllFunc(ctx, limit, offset)
}

func (m *mockRoomService) FindByName(ctx context.Context, name string) ([]*model.Room, error) {
	return m.findByNameFunc(ctx, name)
}

func (m *mockRoomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	return m.updateFunc(ctx, id, updates)
}

func (m *mockRoomService) Delete(ctx context.Context, id string) (*model.Room, error) {
	return m.deleteFunc(ctx, id)
}

func serve(t *testing.T, svc *mockRoomService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := httprouter.New()
	NewRoomHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestCreate(t *testing.T) {
	svc := &mockRoomService{createFunc: func(_ context.Context, room *model.Room) error {
		assert.Equal(t, "Blue", room.Name)
		assert.Equal(t, 6, room.Capacity)
		room.ID = "r-1"
		return nil
	}}

	rec := serve(t, svc, http.MethodPost, "/api/v1/rooms", `{"name":"Blue","capacity":6,"location":"A1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var room model.Room
	decodeData(t, rec, &room)
	assert.Equal(t, "r-1", room.ID)
	assert.NotContains(t, rec.Body.String(), "booking_ids")
}

func TestCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed", `{"name":`, nil, http.StatusBadRequest, apperrors.CodeBadRequest},
		{"invalid capacity", `{"name":"R","capacity":0,"location":"A1"}`, apperrors.InvalidValue("capacity", 0, nil), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"validation", `{"capacity":1,"location":"A1"}`, apperrors.Validation("Room validation failed", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"internal", `{"name":"R","capacity":1,"location":"A1"}`, apperrors.Internal("Failed to create room", nil), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRoomService{createFunc: func(context.Context, *model.Room) error { return tt.err }}

			rec := serve(t, svc, http.MethodPost, "/api/v1/rooms", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &mockRoomService{getByIDFunc: func(_ context.Context, id string) (*model.Room, error) {
		return nil, apperrors.NotFoundWithID("Room", id)
	}}

	rec := serve(t, svc, http.MethodGet, "/api/v1/rooms/id/r-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "r-404")
}

func TestGetAll_PaginationAndNameSearch(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	var gotName string
	svc := &mockRoomService{
		getAllFunc: func(_ context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.Room{{ID: "r-1", Name: "Blue"}}, 7, nil
		},
		findByNameFunc: func(_ context.Context, name string) ([]*model.Room, error) {
			gotName = name
			return []*model.Room{{ID: "r-2", Name: "Green"}}, nil
		},
	}

	rec := serve(t, svc, http.MethodGet, "/api/v1/rooms?limit=500&offset=-3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, int64(0), gotOffset)
	assert.Contains(t, rec.Body.String(), `"total_count":7`)

	rec = serve(t, svc, http.MethodGet, "/api/v1/rooms?name=green", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "green", gotName)
	var rooms []model.Room
	decodeData(t, rec, &rooms)
	require.Len(t, rooms, 1)
	assert.Equal(t, "r-2", rooms[0].ID)
}

func TestUpdate_ReturnsUpdatedRoom(t *testing.T) {
	svc := &mockRoomService{updateFunc: func(_ context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
		require.NotNil(t, updates.Capacity)
		assert.Nil(t, updates.Name)
		return &model.Room{ID: id, Name: "Blue", Capacity: *updates.Capacity, Location: "A1"}, nil
	}}

	rec := serve(t, svc, http.MethodPatch, "/api/v1/rooms/id/r-1", `{"capacity":12}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var room model.Room
	decodeData(t, rec, &room)
	assert.Equal(t, 12, room.Capacity)
}

func TestDelete_ReturnsRemovedRoom(t *testing.T) {
	svc := &mockRoomService{deleteFunc: func(_ context.Context, id string) (*model.Room, error) {
		return &model.Room{ID: id, Name: "Blue"}, nil
	}}

	rec := serve(t, svc, http.MethodDelete, "/api/v1/rooms/id/r-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var room model.Room
	decodeData(t, rec, &room)
	assert.Equal(t, "r-1", room.ID)
}
