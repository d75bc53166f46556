package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// MemberRepository is the narrow slice of the members table the photo
// subsystem needs: enumerate references, look up by business key and
// repair a single reference. Full member CRUD lives in the main app.
type MemberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByMembershipID(ctx context.Context, membershipID string) (*domain.Member, error)
	ListPhotoRefs(ctx context.Context) ([]domain.PhotoRef, error)
	UpdatePhotoID(ctx context.Context, memberID uuid.UUID, photoID string) error
}

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	query := `SELECT * FROM members WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &member, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByMembershipID(ctx context.Context, membershipID string) (*domain.Member, error) {
	var member domain.Member
	query := `SELECT * FROM members WHERE membership_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &member, query, membershipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListPhotoRefs(ctx context.Context) ([]domain.PhotoRef, error) {
	var refs []domain.PhotoRef
	query := `
		SELECT id, membership_id, photo_id FROM members
		WHERE photo_id IS NOT NULL AND photo_id <> '' AND deleted_at IS NULL
		ORDER BY membership_id`

	err := r.db.SelectContext(ctx, &refs, query)
	return refs, err
}

func (r *memberRepository) UpdatePhotoID(ctx context.Context, memberID uuid.UUID, photoID string) error {
	query := `
		UPDATE members SET photo_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, memberID, photoID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
