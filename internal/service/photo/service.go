package photo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/config"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/repository"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service/report"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/storage"
)

// Photo is a resolved asset ready to stream. The caller owns Content
// and must close it.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

type Service interface {
	ServePhoto(ctx context.Context, raw string, preferUploaded bool) (*Photo, error)
	Upload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (string, error)
	Materialize(ctx context.Context, rawURL, businessKey string) (string, error)
	Reconcile(ctx context.Context) (domain.ReconcileReport, error)
	CollectOrphans(ctx context.Context, retention time.Duration) (domain.OrphanReport, error)
	ListAssets(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[storage.AssetInfo], error)
	SetMemberPhoto(ctx context.Context, memberID uuid.UUID, filename string) error
	SetReportService(reports report.Service)
}

type service struct {
	store      storage.AssetStore
	memberRepo repository.MemberRepository
	redis      *redis.Client
	fetch      *http.Client
	cfg        *config.Config
	reports    report.Service

	// Serializes reconcile and orphan-collection runs. They are not
	// safe to overlap: a repair could race a deletion.
	runMu sync.Mutex
}

func NewService(store storage.AssetStore, memberRepo repository.MemberRepository, redisClient *redis.Client, cfg *config.Config) Service {
	return &service{
		store:      store,
		memberRepo: memberRepo,
		redis:      redisClient,
		fetch:      &http.Client{Timeout: cfg.ImportFetchTimeout},
		cfg:        cfg,
	}
}

func (s *service) SetReportService(reports report.Service) {
	s.reports = reports
}

const (
	resolveCachePrefix = "photo:resolve:"
	resolveCacheTTL    = 10 * time.Minute
)

// ServePhoto maps a raw identifier, in any legacy or modern format, to
// a streamable asset. It never fetches external URLs and never
// fabricates substitute bytes: a miss is domain.ErrAssetNotFound.
func (s *service) ServePhoto(ctx context.Context, raw string, preferUploaded bool) (*Photo, error) {
	id := domain.NormalizePhotoID(raw)
	if id.Absent() {
		return nil, domain.ErrAssetNotFound
	}

	if name := s.cachedResolution(ctx, raw); name != "" {
		if p, err := s.open(ctx, name); err == nil {
			return p, nil
		}
		// Stale entry: the store changed underneath it. Fall through
		// to a full resolve.
	}

	res, err := s.resolve(ctx, id, preferUploaded)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, domain.ErrAssetNotFound
	}

	p, err := s.open(ctx, res.Filename)
	if err != nil {
		return nil, err
	}
	s.cacheResolution(ctx, raw, res.Filename)
	return p, nil
}

func (s *service) open(ctx context.Context, name string) (*Photo, error) {
	info, err := s.store.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Photo{
		Filename:    name,
		ContentType: domain.PhotoContentType(name),
		Size:        info.Size,
		Content:     rc,
	}, nil
}

func (s *service) cachedResolution(ctx context.Context, raw string) string {
	if s.redis == nil {
		return ""
	}
	name, err := s.redis.Get(ctx, resolveCachePrefix+raw).Result()
	if err != nil {
		return ""
	}
	return name
}

func (s *service) cacheResolution(ctx context.Context, raw, filename string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Set(ctx, resolveCachePrefix+raw, filename, resolveCacheTTL).Err()
}

// flushResolveCache drops every cached resolution. Called after any
// maintenance run, since repairs and deletions change what an
// identifier resolves to.
func (s *service) flushResolveCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, resolveCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = s.redis.Del(ctx, iter.Val()).Err()
	}
}

// Upload stores one uploaded image under a fresh canonical filename and
// returns that filename. The caller assigns it to the member record.
func (s *service) Upload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.ErrNotImage
	}
	if size > s.cfg.MaxPhotoBytes {
		return "", domain.ErrTooLarge
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(originalName)), ".")
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
	default:
		ext = domain.ExtForContentType(contentType)
	}

	name := uuid.New().String() + "." + ext
	if err := s.store.Write(ctx, name, io.LimitReader(r, s.cfg.MaxPhotoBytes), size, contentType); err != nil {
		return "", err
	}
	return name, nil
}

// SetMemberPhoto is the administrative override: it assigns an explicit
// pre-normalized filename, bypassing resolution entirely.
func (s *service) SetMemberPhoto(ctx context.Context, memberID uuid.UUID, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("filename is required")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrMemberNotFound
	}

	if err := s.memberRepo.UpdatePhotoID(ctx, memberID, filename); err != nil {
		return err
	}
	s.flushResolveCache(ctx)
	return nil
}

func (s *service) ListAssets(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[storage.AssetInfo], error) {
	params.Validate()

	assets, err := s.store.List(ctx)
	if err != nil {
		return domain.PaginatedResponse[storage.AssetInfo]{}, err
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })

	total := int64(len(assets))
	start := params.Offset()
	if start > len(assets) {
		start = len(assets)
	}
	end := start + params.PageSize
	if end > len(assets) {
		end = len(assets)
	}

	return domain.NewPaginatedResponse(assets[start:end], params.Page, params.PageSize, total), nil
}
