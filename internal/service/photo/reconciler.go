package photo

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// Reconcile walks every member photo reference, repairs the broken ones
// through the resolver's fallback strategies, and reports what could
// not be fixed. References are never cleared: an unresolved member
// keeps its reference until a human or a later import repairs it.
//
// Reconcile also fixes duplicate references left behind by old import
// bugs: when several members ended up pointing at one asset, each extra
// member gets a byte-identical copy under its own filename.
func (s *service) Reconcile(ctx context.Context) (domain.ReconcileReport, error) {
	if !s.runMu.TryLock() {
		return domain.ReconcileReport{}, domain.ErrMaintenanceBusy
	}
	defer s.runMu.Unlock()

	report := domain.ReconcileReport{Unresolved: []domain.UnresolvedRef{}}

	refs, err := s.memberRepo.ListPhotoRefs(ctx)
	if err != nil {
		return report, err
	}

	// Tracks the filename each member ends up with, for the duplicate
	// pass below.
	owners := map[string][]domain.PhotoRef{}

	for _, ref := range refs {
		id := domain.NormalizePhotoID(ref.PhotoID)
		if id.Absent() {
			continue
		}
		report.Checked++

		res, err := s.resolve(ctx, id, false)
		if err != nil {
			return report, err
		}

		if !res.Found {
			// Last resort: the membership id itself may name an
			// import-derived asset even when the stored reference is
			// in some other shape entirely.
			name, err := s.findByPattern(ctx, domain.ImportedNamePattern(ref.MembershipID))
			if err != nil {
				return report, err
			}
			if name != "" {
				res = domain.FoundResolution(name, true)
			}
		}

		if !res.Found {
			report.Unresolved = append(report.Unresolved, domain.UnresolvedRef{
				MemberID:     ref.MemberID,
				MembershipID: ref.MembershipID,
				PhotoID:      ref.PhotoID,
			})
			continue
		}

		if res.Discovered {
			if err := s.memberRepo.UpdatePhotoID(ctx, ref.MemberID, res.Filename); err != nil {
				return report, err
			}
			log.Printf("reconcile: member %s photo %q -> %q", ref.MembershipID, ref.PhotoID, res.Filename)
			report.Repaired++
			ref.PhotoID = res.Filename
		} else {
			ref.PhotoID = res.Filename
		}

		owners[res.Filename] = append(owners[res.Filename], ref)
	}

	dedup, err := s.splitSharedAssets(ctx, owners)
	if err != nil {
		return report, err
	}
	report.Deduplicated = dedup

	s.flushResolveCache(ctx)
	s.sendReconcileReport(ctx, report)
	return report, nil
}

// splitSharedAssets gives every member past the first its own copy of a
// shared asset and reassigns the reference. Copies are byte-identical;
// only the name changes.
func (s *service) splitSharedAssets(ctx context.Context, owners map[string][]domain.PhotoRef) (int, error) {
	dedup := 0
	for filename, refs := range owners {
		if len(refs) < 2 {
			continue
		}
		for i, ref := range refs[1:] {
			// The new name must stay inside the import-derived
			// pattern, or the drift search and orphan protection
			// cannot see it.
			ext := strings.ToLower(path.Ext(filename))
			switch ext {
			case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			default:
				ext = ".jpg"
			}
			newName := fmt.Sprintf("imported_%s_%d%s", ref.MembershipID, time.Now().UnixMilli()+int64(i), ext)

			if err := s.store.Copy(ctx, filename, newName); err != nil {
				return dedup, err
			}
			if err := s.memberRepo.UpdatePhotoID(ctx, ref.MemberID, newName); err != nil {
				return dedup, err
			}
			log.Printf("reconcile: member %s shared %q, reassigned to %q", ref.MembershipID, filename, newName)
			dedup++
		}
	}
	return dedup, nil
}

func (s *service) sendReconcileReport(ctx context.Context, report domain.ReconcileReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.SendReconcileReport(ctx, report); err != nil {
		log.Printf("reconcile: report email failed: %v", err)
	}
}
