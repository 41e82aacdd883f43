package tablesearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"linkarchive/internal/core/apperror"
	"linkarchive/internal/domain/omnisearch"
	"linkarchive/internal/infrastructure/storage/postgres"
	"linkarchive/pkg/logger"
)

var tracer = otel.Tracer("linkarchive/tablesearch")

// RowHandler is called once for every row of the returned page.
type RowHandler[T any] func(ctx context.Context, row T) error

// Params configures one table search.
type Params struct {
	Table   string
	Columns []string // selected columns; "*" when empty
	Query   string

	// Mapping translates query fields to columns. DefaultColumns are matched
	// by bare terms; DefaultSearchColumns when empty.
	Mapping        *omnisearch.Mapping
	DefaultColumns []string

	RowsPerPage int // 0 disables pagination
	Page        int // 1-based
	IgnoreCase  bool
	OrderBy     string // "col" or "-col"

	// InitConditions is ANDed with the search predicate.
	InitConditions squirrel.Sqlizer
}

// Page is one page of search results.
type Page[T any] struct {
	Items       []T
	TotalCount  int64
	Page        int
	RowsPerPage int
}

// AlchemySearch runs a search query against one table.
type AlchemySearch[T any] struct {
	querier postgres.Querier
	params  Params
	handler RowHandler[T]
	engine  *omnisearch.Engine[squirrel.Sqlizer]

	result *omnisearch.Result[squirrel.Sqlizer]
	err    error
	done   bool
}

// NewAlchemySearch creates a table search. handler may be nil.
func NewAlchemySearch[T any](querier postgres.Querier, params Params, handler RowHandler[T]) *AlchemySearch[T] {
	defaults := params.DefaultColumns
	if len(defaults) == 0 {
		defaults = DefaultSearchColumns
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.RowsPerPage < 0 {
		params.RowsPerPage = 0
	}

	return &AlchemySearch[T]{
		querier: querier,
		params:  params,
		handler: handler,
		engine:  NewEngine(params.Mapping, defaults, params.IgnoreCase),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (s *AlchemySearch[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (s *AlchemySearch[T]) evaluate() (*omnisearch.Result[squirrel.Sqlizer], error) {
	if !s.done {
		s.done = true
		s.result, s.err = s.engine.Evaluate(s.params.Query)
	}
	return s.result, s.err
}

// Conditions returns the WHERE condition. ok is false when the query could
// not be fully translated and the search must return nothing.
func (s *AlchemySearch[T]) Conditions() (cond squirrel.Sqlizer, ok bool, err error) {
	if omnisearch.IsBlank(s.params.Query) {
		return s.params.InitConditions, true, nil
	}

	result, err := s.evaluate()
	if err != nil {
		return nil, false, err
	}

	pred, ok := result.QueryResult()
	if !ok || len(result.Errors()) > 0 {
		return nil, false, nil
	}
	if s.params.InitConditions != nil {
		return squirrel.And{s.params.InitConditions, pred}, true, nil
	}
	return pred, true, nil
}

// Errors returns the diagnostics for the query.
func (s *AlchemySearch[T]) Errors() []string {
	if omnisearch.IsBlank(s.params.Query) {
		return nil
	}
	result, err := s.evaluate()
	if err != nil || result == nil {
		return nil
	}
	return result.Errors()
}

// NotTranslatedConditions returns comparisons on unknown fields.
func (s *AlchemySearch[T]) NotTranslatedConditions() map[string][]any {
	if omnisearch.IsBlank(s.params.Query) {
		return nil
	}
	result, err := s.evaluate()
	if err != nil || result == nil {
		return nil
	}
	return result.NotTranslatedConditions()
}

// baseSelect returns the filtered select without ordering or pagination.
func (s *AlchemySearch[T]) baseSelect() (squirrel.SelectBuilder, bool, error) {
	cols := s.params.Columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	q := s.Builder().Select(cols...).From(s.params.Table)

	cond, ok, err := s.Conditions()
	if err != nil {
		return q, false, err
	}
	if !ok {
		return q.Where("1 = 0"), false, nil
	}
	if cond != nil {
		q = q.Where(cond)
	}
	return q, true, nil
}

// SelectQuery returns the complete page query.
func (s *AlchemySearch[T]) SelectQuery() (squirrel.SelectBuilder, error) {
	q, _, err := s.baseSelect()
	if err != nil {
		return q, err
	}
	return s.paginate(q)
}

func (s *AlchemySearch[T]) paginate(q squirrel.SelectBuilder) (squirrel.SelectBuilder, error) {
	orderBy, err := s.parseOrderBy(s.params.OrderBy)
	if err != nil {
		return q, err
	}
	if orderBy != "" {
		q = q.OrderBy(orderBy)
	}

	if s.params.RowsPerPage > 0 {
		q = q.Limit(uint64(s.params.RowsPerPage))
		if offset := (s.params.Page - 1) * s.params.RowsPerPage; offset > 0 {
			q = q.Offset(uint64(offset))
		}
	}
	return q, nil
}

// parseOrderBy validates "col"/"-col" against the mapping and selected
// columns.
func (s *AlchemySearch[T]) parseOrderBy(orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return "", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if col, ok := s.params.Mapping.Translate(field); ok {
		return col + " " + direction, nil
	}
	for _, col := range s.params.Columns {
		if col == field {
			return col + " " + direction, nil
		}
	}

	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
}

// Search runs the count and page queries and passes each row to the handler.
func (s *AlchemySearch[T]) Search(ctx context.Context) (Page[T], error) {
	ctx, span := tracer.Start(ctx, "tablesearch.search",
		trace.WithAttributes(
			attribute.String("db.table", s.params.Table),
			attribute.Int("search.page", s.params.Page),
		))
	defer span.End()

	page := Page[T]{
		Items:       []T{},
		Page:        s.params.Page,
		RowsPerPage: s.params.RowsPerPage,
	}

	base, ok, err := s.baseSelect()
	if err != nil {
		return page, err
	}
	if !ok {
		logger.Debug(ctx, "search query not translated",
			"table", s.params.Table,
			"query", s.params.Query,
			"errors", s.Errors(),
		)
		return page, nil
	}

	countSQL, countArgs, err := s.Builder().
		Select("COUNT(*)").
		FromSelect(base, "sub").
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build count query: %w", err)
	}

	if err := s.querier.QueryRow(ctx, countSQL, countArgs...).Scan(&page.TotalCount); err != nil {
		return page, apperror.NewDatabase(err).WithDetail("table", s.params.Table)
	}

	q, err := s.paginate(base)
	if err != nil {
		return page, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return page, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, s.querier, &page.Items, sql, args...); err != nil {
		return page, apperror.NewDatabase(err).WithDetail("table", s.params.Table)
	}

	if s.handler != nil {
		for _, row := range page.Items {
			if err := s.handler(ctx, row); err != nil {
				return page, err
			}
		}
	}

	return page, nil
}
