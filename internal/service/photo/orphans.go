package photo

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// CollectOrphans deletes assets no member references, once they are
// older than the retention window. The window keeps a just-completed
// upload alive until its owner's reference lands. This is the only
// code path that removes bytes from the store.
func (s *service) CollectOrphans(ctx context.Context, retention time.Duration) (domain.OrphanReport, error) {
	if !s.runMu.TryLock() {
		return domain.OrphanReport{}, domain.ErrMaintenanceBusy
	}
	defer s.runMu.Unlock()

	if retention <= 0 {
		retention = s.cfg.OrphanRetention
	}

	refs, err := s.memberRepo.ListPhotoRefs(ctx)
	if err != nil {
		return domain.OrphanReport{}, err
	}

	referenced := map[string]bool{}
	var cachePrefixes []string
	var importPatterns []*regexp.Regexp

	for _, ref := range refs {
		id := domain.NormalizePhotoID(ref.PhotoID)
		switch id.Kind {
		case domain.PhotoAbsent, domain.PhotoCorruptedProxy:
		case domain.PhotoExternalURL:
			// A cached copy of a referenced URL is not an orphan,
			// under either cache-naming generation.
			cachePrefixes = append(cachePrefixes, domain.URLCacheNames(id.Value)...)
		default:
			referenced[id.Value] = true
			// Timestamp drift means the live file for an
			// import-derived reference may carry another suffix.
			if key := id.ImportKey(); key != "" {
				importPatterns = append(importPatterns, domain.ImportedNamePattern(key))
			}
		}
	}

	assets, err := s.store.List(ctx)
	if err != nil {
		return domain.OrphanReport{}, err
	}

	report := domain.OrphanReport{}
	cutoff := time.Now().Add(-retention)

	for _, a := range assets {
		if isReferenced(a.Name, referenced, cachePrefixes, importPatterns) || a.ModTime.After(cutoff) {
			report.Kept++
			continue
		}
		if err := s.store.Delete(ctx, a.Name); err != nil {
			return report, err
		}
		log.Printf("orphans: removed %s (age %s)", a.Name, time.Since(a.ModTime).Round(time.Minute))
		report.Removed++
	}

	s.flushResolveCache(ctx)
	s.sendOrphanReport(ctx, report)
	return report, nil
}

func isReferenced(name string, referenced map[string]bool, cachePrefixes []string, importPatterns []*regexp.Regexp) bool {
	if referenced[name] {
		return true
	}
	for _, p := range cachePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, re := range importPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func (s *service) sendOrphanReport(ctx context.Context, report domain.OrphanReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.SendOrphanReport(ctx, report); err != nil {
		log.Printf("orphans: report email failed: %v", err)
	}
}
