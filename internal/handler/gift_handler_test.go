package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"promo-admin/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGiftService is a mock implementation of GiftService.
type MockGiftService struct {
	mock.Mock
}

func (m *MockGiftService) List(ctx context.Context) ([]model.Gift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Gift), args.Error(1)
}

func TestGiftHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockGiftService)
		mockService.On("List", mock.Anything).Return([]model.Gift{
			{ID: 1, Name: "Mug", Remaining: 3, Value: decimal.RequireFromString("4.50")},
		}, nil)

		handler := NewGiftHandler(mockService, zerolog.Nop())
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/gifts", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var gifts []model.Gift
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gifts))
		require.Len(t, gifts, 1)
		assert.True(t, decimal.RequireFromString("4.5").Equal(gifts[0].Value))
	})

	t.Run("Service failure", func(t *testing.T) {
		mockService := new(MockGiftService)
		mockService.On("List", mock.Anything).Return(nil, errors.New("catalog unavailable"))

		handler := NewGiftHandler(mockService, zerolog.Nop())
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/gifts", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		handler := NewGiftHandler(new(MockGiftService), zerolog.Nop())
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodPost, "/api/gifts", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
