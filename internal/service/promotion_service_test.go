package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"promo-admin/internal/model"
	"promo-admin/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPromotionRepository is a mock implementation of PromotionRepository.
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) List(ctx context.Context, filter repository.ListFilter) ([]model.Promotion, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) GetByID(ctx context.Context, id int64) (*model.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Create(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Update(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validPromotion(id int64) model.Promotion {
	return model.Promotion{
		ID:                id,
		Name:              "Summer",
		Date:              model.NewDate(2024, time.July, 15),
		SentGifts:         5,
		DaysToTakeGift:    3,
		DaysToReceiveGift: 7,
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    ListQuery
		expected repository.ListFilter
		errMatch string
	}{
		{
			name:     "Defaults",
			query:    ListQuery{},
			expected: repository.ListFilter{Sort: model.SortByName, Limit: 10, Offset: 0},
		},
		{
			name:     "One-based page becomes offset",
			query:    ListQuery{Sort: model.SortByDate, Order: "DESC", Page: 3, Limit: 20, Search: "  gift "},
			expected: repository.ListFilter{Sort: model.SortByDate, Desc: true, Limit: 20, Offset: 40, Search: "gift"},
		},
		{
			name:     "Limit capped at 100",
			query:    ListQuery{Sort: model.SortBySentGifts, Page: 2, Limit: 1000},
			expected: repository.ListFilter{Sort: model.SortBySentGifts, Limit: 100, Offset: 100},
		},
		{
			name:     "Page below one is clamped",
			query:    ListQuery{Sort: model.SortByID, Page: -4, Limit: 5},
			expected: repository.ListFilter{Sort: model.SortByID, Limit: 5},
		},
		{
			name:     "Largest page whose offset fits",
			query:    ListQuery{Page: math.MaxInt/10 + 1, Limit: 10},
			expected: repository.ListFilter{Sort: model.SortByName, Limit: 10, Offset: math.MaxInt / 10 * 10},
		},
		{
			name:     "Page whose offset overflows",
			query:    ListQuery{Page: math.MaxInt, Limit: 10},
			errMatch: "is out of range",
		},
		{
			name:     "Unknown sort",
			query:    ListQuery{Sort: "price"},
			errMatch: `unknown sort field "price"`,
		},
		{
			name:     "Unknown order",
			query:    ListQuery{Order: "sideways"},
			errMatch: `unknown sort order "sideways"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Filter(tt.query)

			if tt.errMatch != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMatch)
				var domainErr *model.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, model.ErrCodeInvalidQuery, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filter)
		})
	}
}

func TestPromotionService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockPromotionRepository)
		expected := []model.Promotion{validPromotion(1)}
		repo.On("List", ctx, repository.ListFilter{Sort: model.SortByName, Limit: 10, Offset: 10}).Return(expected, nil)

		svc := NewPromotionService(repo, zerolog.Nop())
		promotions, err := svc.List(ctx, ListQuery{Page: 2})

		require.NoError(t, err)
		assert.Equal(t, expected, promotions)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid query never reaches repository", func(t *testing.T) {
		repo := new(MockPromotionRepository)

		svc := NewPromotionService(repo, zerolog.Nop())
		_, err := svc.List(ctx, ListQuery{Sort: "bogus"})

		require.Error(t, err)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("Repository error is wrapped", func(t *testing.T) {
		repo := new(MockPromotionRepository)
		repo.On("List", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		svc := NewPromotionService(repo, zerolog.Nop())
		_, err := svc.List(ctx, ListQuery{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list promotions")
	})
}

func TestPromotionService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPromotionRepository)
	p := validPromotion(4)
	repo.On("GetByID", ctx, int64(4)).Return(&p, nil)
	repo.On("GetByID", ctx, int64(5)).Return(nil, model.ErrPromotionNotFound)

	svc := NewPromotionService(repo, zerolog.Nop())

	found, err := svc.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), found.ID)

	_, err = svc.GetByID(ctx, 5)
	assert.ErrorIs(t, err, model.ErrPromotionNotFound)

	_, err = svc.GetByID(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInvalidPromotionID)
}

func TestPromotionService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		input       model.Promotion
		setupMock   func(repo *MockPromotionRepository)
		expectError bool
		checkErr    func(t *testing.T, err error)
	}{
		{
			name:  "Success ignores client ID",
			input: validPromotion(99),
			setupMock: func(repo *MockPromotionRepository) {
				created := validPromotion(1)
				repo.On("Create", ctx, validPromotion(0)).Return(&created, nil)
			},
		},
		{
			name: "Validation failure",
			input: func() model.Promotion {
				p := validPromotion(0)
				p.DaysToTakeGift = 1
				p.CardNumbers = "12a"
				return p
			}(),
			setupMock:   func(repo *MockPromotionRepository) {},
			expectError: true,
			checkErr: func(t *testing.T, err error) {
				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.True(t, verr.Has("daysToTakeGift"))
				assert.True(t, verr.Has("cardNumbers"))
			},
		},
		{
			name:  "Repository failure",
			input: validPromotion(0),
			setupMock: func(repo *MockPromotionRepository) {
				repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("disk full"))
			},
			expectError: true,
			checkErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to create promotion")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPromotionRepository)
			tt.setupMock(repo)

			svc := NewPromotionService(repo, zerolog.Nop())
			created, err := svc.Create(ctx, tt.input)

			if tt.expectError {
				require.Error(t, err)
				tt.checkErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), created.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestPromotionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success takes ID from path", func(t *testing.T) {
		repo := new(MockPromotionRepository)
		expected := validPromotion(3)
		repo.On("Update", ctx, expected).Return(&expected, nil)

		svc := NewPromotionService(repo, zerolog.Nop())
		updated, err := svc.Update(ctx, 3, validPromotion(0))

		require.NoError(t, err)
		assert.Equal(t, int64(3), updated.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Mismatched body ID", func(t *testing.T) {
		repo := new(MockPromotionRepository)

		svc := NewPromotionService(repo, zerolog.Nop())
		_, err := svc.Update(ctx, 3, validPromotion(4))

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeInvalidPromotionID, domainErr.Code)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Not found passes through", func(t *testing.T) {
		repo := new(MockPromotionRepository)
		repo.On("Update", ctx, mock.Anything).Return(nil, model.ErrPromotionNotFound)

		svc := NewPromotionService(repo, zerolog.Nop())
		_, err := svc.Update(ctx, 3, validPromotion(3))

		assert.ErrorIs(t, err, model.ErrPromotionNotFound)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		svc := NewPromotionService(new(MockPromotionRepository), zerolog.Nop())
		_, err := svc.Update(ctx, -1, validPromotion(0))

		assert.ErrorIs(t, err, model.ErrInvalidPromotionID)
	})
}

func TestPromotionService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPromotionRepository)
	repo.On("Delete", ctx, int64(8)).Return(nil)
	repo.On("Delete", ctx, int64(9)).Return(model.ErrPromotionNotFound)
	repo.On("Delete", ctx, int64(10)).Return(errors.New("timeout"))

	svc := NewPromotionService(repo, zerolog.Nop())

	assert.NoError(t, svc.Delete(ctx, 8))
	assert.ErrorIs(t, svc.Delete(ctx, 9), model.ErrPromotionNotFound)

	err := svc.Delete(ctx, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete promotion")

	assert.ErrorIs(t, svc.Delete(ctx, 0), model.ErrInvalidPromotionID)
}
