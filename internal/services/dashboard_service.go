package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"siteadmin/internal/audit"
	"siteadmin/internal/cache"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

const (
	dashboardStatsKey   = "dashboard:stats"
	recentActivityLimit = 5
	activityWindow      = 7 * 24 * time.Hour
)

// dashboardService computes and caches dashboard statistics.
type dashboardService struct {
	db    *gorm.DB
	audit audit.Store
	cache cache.Store
	ttl   time.Duration
	clock cache.Clock
}

// NewDashboardService creates a new DashboardServicer. Statistics are cached
// in store for ttl.
func NewDashboardService(db *gorm.DB, auditStore audit.Store, store cache.Store, ttl time.Duration, clock cache.Clock) DashboardServicer {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &dashboardService{db: db, audit: auditStore, cache: store, ttl: ttl, clock: clock}
}

// GetStats returns the cached statistics, computing them on a miss.
func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats, err := cache.GetOrLoad(ctx, s.cache, dashboardStatsKey, s.ttl, s.compute)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stats, nil
}

// ClearCache drops the cached statistics.
func (s *dashboardService) ClearCache(ctx context.Context) error {
	if err := s.cache.Delete(ctx, dashboardStatsKey); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *dashboardService) compute(ctx context.Context) (DashboardStats, error) {
	now := s.clock.Now().UTC()
	stats := DashboardStats{GeneratedAt: now}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	count := func(dest *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			q := s.db.WithContext(ctx).Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dest).Error
		})
	}

	count(&stats.BlogPosts, &models.BlogPost{}, "")
	count(&stats.PublishedPosts, &models.BlogPost{}, "status = ?", models.BlogStatusPublished)
	count(&stats.DraftPosts, &models.BlogPost{}, "status = ?", models.BlogStatusDraft)
	count(&stats.ActiveStaff, &models.StaffMember{}, "is_active = ?", true)
	count(&stats.SEOPages, &models.SEOPage{}, "")
	count(&stats.NoIndexPages, &models.SEOPage{}, "no_index = ?", true)
	count(&stats.Redirects, &models.Redirect{}, "")
	count(&stats.AdminUsers, &models.AdminUser{}, "is_active = ?", true)

	g.Go(func() error {
		since := now.Add(-activityWindow)
		_, total, err := s.audit.Query(ctx, audit.Filter{
			Since: &since,
			Page:  pagination.PageRequest{Page: 1, PageSize: 1},
		})
		stats.ChangesThisWeek = total
		return err
	})
	g.Go(func() error {
		recent, _, err := s.audit.Query(ctx, audit.Filter{
			Page: pagination.PageRequest{Page: 1, PageSize: recentActivityLimit},
		})
		if recent == nil {
			recent = []models.AuditLog{}
		}
		stats.RecentActivity = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
