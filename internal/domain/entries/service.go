package entries

import (
	"context"
	"fmt"
	"unicode/utf8"

	"linkarchive/internal/core/apperror"
	appctx "linkarchive/internal/core/context"
	"linkarchive/pkg/logger"
)

const (
	DefaultPageSize        = 20
	MaxPageSize            = 100
	DefaultMaxSearchLength = 1024
)

// Service provides entry search and import.
type Service struct {
	repo            Repository
	maxSearchLength int
}

// ServiceConfig configures the entry service.
type ServiceConfig struct {
	Repo            Repository
	MaxSearchLength int // 0 uses DefaultMaxSearchLength
}

// NewService creates a new entry service.
func NewService(cfg ServiceConfig) *Service {
	maxLen := cfg.MaxSearchLength
	if maxLen <= 0 {
		maxLen = DefaultMaxSearchLength
	}
	return &Service{repo: cfg.Repo, maxSearchLength: maxLen}
}

// Normalize applies paging defaults and rejects out-of-range values.
func (s *Service) Normalize(q SearchQuery) (SearchQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return q, apperror.NewValidation("page must be positive").WithDetail("page", q.Page)
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return q, apperror.NewValidation(fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize)).
			WithDetail("pageSize", q.PageSize)
	}
	if err := s.CheckSearch(q.Search); err != nil {
		return q, err
	}
	return q, nil
}

// CheckSearch rejects search text longer than the configured maximum.
func (s *Service) CheckSearch(search string) error {
	if n := utf8.RuneCountInString(search); n > s.maxSearchLength {
		return apperror.NewValidation("search is too long").
			WithDetail("length", n).
			WithDetail("max", s.maxSearchLength)
	}
	return nil
}

// Search returns one page of entries matching q.Search. Untranslatable
// queries return no entries; their diagnostics are in the result.
func (s *Service) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q, err := s.Normalize(q)
	if err != nil {
		return SearchResult{}, err
	}

	ctx = appctx.WithSearch(ctx, q.Search)

	result, err := s.repo.Search(ctx, q)
	if err != nil {
		if apperror.IsAppError(err) {
			return SearchResult{}, err
		}
		return SearchResult{}, apperror.NewInternal(err)
	}

	if len(result.Errors) > 0 {
		logger.Warn(ctx, "search query not fully translated",
			"errors", result.Errors,
			"not_translated", result.NotTranslated,
		)
	}
	logger.Debug(ctx, "search completed",
		"total", result.TotalCount,
		"page", result.Page,
		"returned", len(result.Items),
	)

	return result, nil
}

// Import validates and stores entries. Links must be unique within the batch.
func (s *Service) Import(ctx context.Context, list []Entry) (int64, error) {
	if len(list) == 0 {
		return 0, nil
	}

	seen := make(map[string]int, len(list))
	for i, e := range list {
		if err := e.Validate(); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return 0, appErr.WithDetail("index", i)
			}
			return 0, err
		}
		if prev, dup := seen[e.Link]; dup {
			return 0, apperror.NewValidation("duplicate link").
				WithDetail("link", e.Link).
				WithDetail("index", i).
				WithDetail("firstIndex", prev)
		}
		seen[e.Link] = i
	}

	n, err := s.repo.Import(ctx, list)
	if err != nil {
		if apperror.IsAppError(err) {
			return n, err
		}
		return n, apperror.NewInternal(err)
	}

	logger.Info(ctx, "entries imported", "count", n)
	return n, nil
}
