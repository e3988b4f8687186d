package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// MockEventService is a mock implementation of service.EventService.
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context) []model.Event {
	args := m.Called(ctx)
	return args.Get(0).([]model.Event)
}

func (m *MockEventService) Create(ctx context.Context, event model.Event) (model.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventService) Participate(ctx context.Context, id int64) (model.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Event), args.Error(1)
}

func TestEventHandler_Participate(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		setupMock  func(*MockEventService)
		wantStatus int
	}{
		{
			name: "success",
			id:   "1",
			setupMock: func(m *MockEventService) {
				m.On("Participate", mock.Anything, int64(1)).Return(model.Event{ID: 1, Attendees: 46}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "full",
			id:   "2",
			setupMock: func(m *MockEventService) {
				m.On("Participate", mock.Anything, int64(2)).Return(model.Event{}, apperrors.ErrEventFull)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown",
			id:   "9",
			setupMock: func(m *MockEventService) {
				m.On("Participate", mock.Anything, int64(9)).Return(model.Event{}, apperrors.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			id:         "x",
			setupMock:  func(m *MockEventService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockEventService)
			tt.setupMock(svc)
			h := NewEventHandler(svc)

			c, rec := newContext(http.MethodPost, "/", "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.Participate(c)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, tt.wantStatus, he.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestEventHandler_CreateValidates(t *testing.T) {
	svc := new(MockEventService)
	h := NewEventHandler(svc)

	c, _ := newContext(http.MethodPost, "/", `{"title":"","capacity":-1}`)
	err := h.CreateEvent(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestErrorResponse(t *testing.T) {
	he := errorResponse(apperrors.ErrEmailTaken)
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, apperrors.ErrorResponse{Error: apperrors.ErrEmailTaken.Error(), Code: "EMAIL_TAKEN"}, he.Message)
}

func TestCurrentClaims_Missing(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", "")
	_, err := currentClaims(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestServeUpload_WithoutLocalStore(t *testing.T) {
	h := NewGalleryHandler(nil, nil)
	c, _ := newContext(http.MethodGet, "/", "")
	c.SetParamNames("key")
	c.SetParamValues("a.png")

	var he *echo.HTTPError
	require.ErrorAs(t, h.ServeUpload(c), &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateUserRequest_Patch(t *testing.T) {
	role := "adm"
	name := "Novo Nome"
	patch := UpdateUserRequest{Name: &name, Role: &role}.patch()

	require.NotNil(t, patch.Role)
	assert.Equal(t, model.RoleAdm, *patch.Role)
	assert.Equal(t, &name, patch.Name)
	assert.Nil(t, patch.Email)
}

func TestDiaryEntryUpdateRequest_Patch(t *testing.T) {
	empty := ""
	assert.True(t, DiaryEntryUpdateRequest{DueDate: &empty}.patch().ClearDueDate)

	date := "2030-05-01"
	patch := DiaryEntryUpdateRequest{DueDate: &date, RemoveAttachment: true}.patch()
	require.NotNil(t, patch.DueDate)
	assert.Equal(t, 2030, patch.DueDate.Year())
	assert.True(t, patch.ClearAttachment)

	assert.Nil(t, dueDate("  "))
}
