package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_Toggle(t *testing.T) {
	const username = "meena@example.com"

	testCases := []struct {
		name         string
		mockBehavior func(repo *mockWishlistRepo)
		want         bool
		wantErr      bool
	}{
		{
			name: "absent entry is added",
			mockBehavior: func(repo *mockWishlistRepo) {
				repo.On("Exists", mock.Anything, username, int64(7)).Return(false, nil)
				repo.On("Add", mock.Anything, username, int64(7)).Return(nil)
			},
			want: true,
		},
		{
			name: "present entry is removed",
			mockBehavior: func(repo *mockWishlistRepo) {
				repo.On("Exists", mock.Anything, username, int64(7)).Return(true, nil)
				repo.On("Remove", mock.Anything, username, int64(7)).Return(nil)
			},
			want: false,
		},
		{
			name: "lookup failure surfaces",
			mockBehavior: func(repo *mockWishlistRepo) {
				repo.On("Exists", mock.Anything, username, int64(7)).Return(false, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockWishlistRepo)
			tc.mockBehavior(repo)

			svc := service.NewWishlistService(discardLogger(), repo)

			wishlisted, err := svc.Toggle(context.Background(), username, 7)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, wishlisted)
			repo.AssertExpectations(t)
		})
	}
}

func TestWishlistService_ToggleTwiceRestoresState(t *testing.T) {
	const username = "9876543210"

	repo := new(mockWishlistRepo)
	repo.On("Exists", mock.Anything, username, int64(3)).Return(false, nil).Once()
	repo.On("Add", mock.Anything, username, int64(3)).Return(nil).Once()
	repo.On("Exists", mock.Anything, username, int64(3)).Return(true, nil).Once()
	repo.On("Remove", mock.Anything, username, int64(3)).Return(nil).Once()

	svc := service.NewWishlistService(discardLogger(), repo)

	first, err := svc.Toggle(context.Background(), username, 3)
	require.NoError(t, err)
	second, err := svc.Toggle(context.Background(), username, 3)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	repo.AssertExpectations(t)
}

func TestWishlistService_List(t *testing.T) {
	repo := new(mockWishlistRepo)
	products := []entities.Product{{ID: 3, Slug: "basket"}}
	repo.On("ListProducts", mock.Anything, "meena@example.com").Return(products, nil)

	svc := service.NewWishlistService(discardLogger(), repo)

	got, err := svc.List(context.Background(), "meena@example.com")
	require.NoError(t, err)
	assert.Equal(t, products, got)
}
