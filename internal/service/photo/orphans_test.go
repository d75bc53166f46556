package photo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

func ageAsset(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(filepath.Join(dir, name), old, old))
}

func TestCollectOrphans(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh orphan survives the retention window", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, _ := newTestService(t, repo)
		putAsset(t, svc, "just-uploaded.jpg", "bytes")

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Removed)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("aged orphan is removed", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, dir := newTestService(t, repo)
		putAsset(t, svc, "abandoned.jpg", "bytes")
		ageAsset(t, dir, "abandoned.jpg", 48*time.Hour)

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Removed)
		assert.Equal(t, 0, report.Kept)

		ok, err := svc.store.Exists(ctx, "abandoned.jpg")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("aged but referenced asset is kept", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, dir := newTestService(t, repo)
		putAsset(t, svc, "portrait.jpg", "bytes")
		ageAsset(t, dir, "portrait.jpg", 48*time.Hour)

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{
			{MembershipID: "00001", PhotoID: "/uploads/portrait.jpg"},
		}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Removed)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("cached copy of a referenced url is kept", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, dir := newTestService(t, repo)

		url := "https://example.com/a.png"
		cached := domain.URLCacheNames(url)[1] + ".png"
		putAsset(t, svc, cached, "bytes")
		ageAsset(t, dir, cached, 72*time.Hour)

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{
			{MembershipID: "00002", PhotoID: url},
		}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Removed)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("drifted import asset for a referenced key is kept", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, dir := newTestService(t, repo)
		putAsset(t, svc, "imported_00099_999.jpg", "bytes")
		ageAsset(t, dir, "imported_00099_999.jpg", 72*time.Hour)

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{
			{MembershipID: "00099", PhotoID: "imported_00099_111.jpg"},
		}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Removed)
		assert.Equal(t, 1, report.Kept)
	})

	t.Run("default retention applies when none given", func(t *testing.T) {
		repo := new(mockMemberRepo)
		svc, dir := newTestService(t, repo)
		putAsset(t, svc, "recent.jpg", "bytes")
		ageAsset(t, dir, "recent.jpg", time.Hour)

		repo.On("ListPhotoRefs", ctx).Return([]domain.PhotoRef{}, nil).Once()

		report, err := svc.CollectOrphans(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Removed)
		assert.Equal(t, 1, report.Kept)
	})
}
