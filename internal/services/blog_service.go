package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

var blogTrackedFields = []string{
	"title",
	"slug",
	"excerpt",
	"content",
	"cover_image",
	"author",
	"tags",
	"status",
	"published_at",
	"meta_title",
	"meta_description",
}

// blogService handles blog post management.
type blogService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	now      func() time.Time
}

// NewBlogService creates a new BlogServicer.
func NewBlogService(db *gorm.DB, recorder *audit.Recorder) BlogServicer {
	return &blogService{db: db, recorder: recorder, now: time.Now}
}

// ListPosts retrieves a paginated list of posts, newest first.
func (s *blogService) ListPosts(ctx context.Context, filter BlogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BlogPost], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.BlogPost{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var posts []models.BlogPost
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&posts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(posts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPost retrieves a post by ID.
func (s *blogService) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	return findPost(s.db.WithContext(ctx), id)
}

// CreatePost creates a post. Publishing stamps the publish time.
func (s *blogService) CreatePost(ctx context.Context, actor Actor, input BlogInput) (*models.BlogPost, error) {
	if err := validateBlogInput(&input); err != nil {
		return nil, err
	}
	if err := ensureSlugFree(s.db.WithContext(ctx), &models.BlogPost{}, input.Slug, ""); err != nil {
		return nil, err
	}

	post := &models.BlogPost{}
	s.apply(post, input)
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  blogEntry(models.AuditActionCreate, post, actor),
		New:    post,
		Fields: blogTrackedFields,
	})
	return post, nil
}

// UpdatePost replaces the editable fields of a post. When the slug changes a
// slug_change entry is recorded, and createRedirect sends the old public
// path to the new one.
func (s *blogService) UpdatePost(ctx context.Context, actor Actor, id string, input BlogInput, createRedirect bool) (*models.BlogPost, error) {
	if err := validateBlogInput(&input); err != nil {
		return nil, err
	}

	var before models.BlogPost
	var post *models.BlogPost
	var move *redirectMove

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findPost(tx, id)
		if err != nil {
			return err
		}
		before = *found
		post = found

		if input.Slug != before.Slug {
			if err := ensureSlugFree(tx, &models.BlogPost{}, input.Slug, id); err != nil {
				return err
			}
		}

		s.apply(post, input)
		if err := tx.Save(post).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if createRedirect && input.Slug != before.Slug {
			move, err = moveRedirect(tx, BlogPath(before.Slug), BlogPath(post.Slug))
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  blogEntry(models.AuditActionUpdate, post, actor),
		Old:    &before,
		New:    post,
		Fields: blogTrackedFields,
	})
	if before.Slug != post.Slug {
		recordSlugChange(ctx, s.recorder, actor, models.EntityBlogPost, post.ID,
			BlogPath(before.Slug), BlogPath(post.Slug), before.Slug, post.Slug, move)
	}
	return post, nil
}

// DeletePost removes a post.
func (s *blogService) DeletePost(ctx context.Context, actor Actor, id string) error {
	post, err := findPost(s.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(post).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  blogEntry(models.AuditActionDelete, post, actor),
		Old:    post,
		Fields: blogTrackedFields,
	})
	return nil
}

// BulkDeletePosts removes the posts with the given IDs and records a single
// bulk entry. Unknown IDs are ignored.
func (s *blogService) BulkDeletePosts(ctx context.Context, actor Actor, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one id is required")
	}

	var posts []models.BlogPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Order("slug ASC").Find(&posts).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(posts) == 0 {
			return nil
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.BlogPost{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, nil
	}

	paths := make([]string, 0, len(posts))
	for _, p := range posts {
		paths = append(paths, BlogPath(p.Slug))
	}
	_ = s.recorder.Record(ctx, audit.Entry{
		Action:     models.AuditActionBulkDelete,
		EntityType: models.EntityBlogPost,
		Metadata: &models.AuditMetadata{
			IsBulkOperation: true,
			AffectedPaths:   paths,
			AffectedCount:   len(paths),
		},
		Actor: actor,
	})
	return len(posts), nil
}

func (s *blogService) apply(post *models.BlogPost, input BlogInput) {
	post.Title = input.Title
	post.Slug = input.Slug
	post.Excerpt = input.Excerpt
	post.Content = input.Content
	post.CoverImage = input.CoverImage
	post.Author = input.Author
	post.Tags = datatypes.NewJSONType(input.Tags)
	post.Status = input.Status
	post.MetaTitle = input.MetaTitle
	post.MetaDescription = input.MetaDescription

	switch {
	case post.Status == models.BlogStatusPublished && post.PublishedAt == nil:
		now := s.now().UTC()
		post.PublishedAt = &now
	case post.Status == models.BlogStatusDraft:
		post.PublishedAt = nil
	}
}

func validateBlogInput(input *BlogInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Title == "" || input.Slug == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title and slug are required")
	}
	if input.Status == "" {
		input.Status = models.BlogStatusDraft
	}
	if input.Status != models.BlogStatusDraft && input.Status != models.BlogStatusPublished {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be draft or published")
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	return nil
}

func findPost(db *gorm.DB, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBlogNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &post, nil
}

// ensureSlugFree returns ErrDuplicateSlug when another row of model uses slug.
func ensureSlugFree(db *gorm.DB, model interface{}, slug, exceptID string) error {
	var count int64
	q := db.Model(model).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateSlug
	}
	return nil
}

// recordSlugChange records a slug_change entry followed by one entry per
// redirect row the move touched.
func recordSlugChange(ctx context.Context, recorder *audit.Recorder, actor Actor, entityType, entityID, oldPath, newPath, oldSlug, newSlug string, move *redirectMove) {
	retargeted, removed := move.fromPaths()
	_ = recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry: audit.Entry{
			Action:     models.AuditActionSlugChange,
			EntityType: entityType,
			EntityID:   entityID,
			Path:       newPath,
			Metadata: &models.AuditMetadata{
				OldSlug:             oldSlug,
				NewSlug:             newSlug,
				RedirectCreated:     move.Created(),
				RetargetedRedirects: retargeted,
				RemovedRedirects:    removed,
			},
			Actor: actor,
		},
		Old:    map[string]string{"path": oldPath},
		New:    map[string]string{"path": newPath},
		Fields: []string{"path"},
	})
	recordRedirectMove(ctx, recorder, actor, move)
}

func blogEntry(action models.AuditAction, p *models.BlogPost, actor Actor) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: models.EntityBlogPost,
		EntityID:   p.ID,
		Path:       BlogPath(p.Slug),
		Actor:      actor,
	}
}
