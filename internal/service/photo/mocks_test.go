package photo

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) GetByMembershipID(ctx context.Context, membershipID string) (*domain.Member, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) ListPhotoRefs(ctx context.Context) ([]domain.PhotoRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PhotoRef), args.Error(1)
}

func (m *mockMemberRepo) UpdatePhotoID(ctx context.Context, memberID uuid.UUID, photoID string) error {
	args := m.Called(ctx, memberID, photoID)
	return args.Error(0)
}
