package handlers

import (
	"github.com/gin-gonic/gin"

	"linkarchive/internal/core/apperror"
	appctx "linkarchive/internal/core/context"
	"linkarchive/internal/domain/entries"
	"linkarchive/internal/domain/omnisearch"
	"linkarchive/internal/infrastructure/http/v1/dto"
	"linkarchive/internal/infrastructure/search/qfilter"
	"linkarchive/internal/infrastructure/storage/postgres/tablesearch"
	"linkarchive/pkg/logger"
)

// SearchPlanner builds table search parameters for a query.
type SearchPlanner interface {
	Params(q entries.SearchQuery) tablesearch.Params
}

// EntryHandler serves entry search, query explanation, in-memory filtering
// and import.
type EntryHandler struct {
	*BaseHandler
	service *entries.Service
	planner SearchPlanner
	engine  *omnisearch.Engine[qfilter.Q]
}

// EntryHandlerConfig configures the entry handler.
type EntryHandlerConfig struct {
	Service       *entries.Service
	Planner       SearchPlanner
	Mapping       *omnisearch.Mapping
	DefaultFields []string
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(base *BaseHandler, cfg EntryHandlerConfig) *EntryHandler {
	mapping := cfg.Mapping
	if mapping == nil {
		mapping = entries.NewMapping(nil)
	}
	defaults := cfg.DefaultFields
	if len(defaults) == 0 {
		defaults = entries.DefaultSearchFields
	}
	return &EntryHandler{
		BaseHandler: base,
		service:     cfg.Service,
		planner:     cfg.Planner,
		engine:      qfilter.NewEngine(mapping, defaults),
	}
}

// Search handles GET /entries - paginated search.
func (h *EntryHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.Search(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSearchResult(result))
}

// Explain handles GET /entries/explain - shows the translated query.
func (h *EntryHandler) Explain(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindQuery(c, &req) {
		return
	}

	q, err := h.service.Normalize(req.ToQuery())
	if err != nil {
		h.Error(c, err)
		return
	}

	proc := qfilter.NewEquationProcessor(q.Search, h.engine)
	cond, err := proc.Conditions()
	if err != nil {
		h.Error(c, apperror.NewSearchMisconfigured(err))
		return
	}
	expr, err := qfilter.Expression(cond)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	table := tablesearch.NewAlchemySearch[entries.Entry](nil, h.planner.Params(q), nil)
	sql, args, err := h.selectSQL(table)
	if err != nil {
		h.Error(c, err)
		return
	}
	if args == nil {
		args = []any{}
	}

	h.OK(c, dto.ExplainResponse{
		Search:     q.Search,
		Conditions: cond.String(),
		Expression: expr,
		SQL:        sql,
		Args:       args,
		Diagnostics: dto.Diagnostics{
			Errors:        proc.Errors(),
			NotTranslated: proc.NotTranslatedConditions(),
		},
		SQLErrors: table.Errors(),
	})
}

func (h *EntryHandler) selectSQL(table *tablesearch.AlchemySearch[entries.Entry]) (string, []any, error) {
	sb, err := table.SelectQuery()
	if err != nil {
		if apperror.IsAppError(err) {
			return "", nil, err
		}
		return "", nil, apperror.NewSearchMisconfigured(err)
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return "", nil, apperror.NewInternal(err)
	}
	return sql, args, nil
}

// Filter handles POST /entries/filter - filters the posted records.
func (h *EntryHandler) Filter(c *gin.Context) {
	search := c.Query(qfilter.SearchParam)
	if err := h.service.CheckSearch(search); err != nil {
		h.Error(c, err)
		return
	}

	list, ok := h.BindRecords(c)
	if !ok {
		return
	}

	ctx := appctx.WithSearch(c.Request.Context(), search)
	f := qfilter.NewFilter(c.Request.URL.Query(), list, h.engine)

	matched, err := f.FilteredObjects()
	if err != nil {
		h.Error(c, apperror.NewSearchMisconfigured(err))
		return
	}

	if errs := f.Errors(); len(errs) > 0 {
		logger.Warn(ctx, "filter query not fully translated",
			"errors", errs,
			"not_translated", f.NotTranslatedConditions(),
		)
	}

	h.OK(c, dto.FilterResponse{
		Items: matched,
		Count: len(matched),
		Diagnostics: dto.Diagnostics{
			Errors:        f.Errors(),
			NotTranslated: f.NotTranslatedConditions(),
		},
	})
}

// Import handles POST /entries/import - stores the posted entries.
func (h *EntryHandler) Import(c *gin.Context) {
	list, ok := h.BindRecords(c)
	if !ok {
		return
	}

	batch := make([]entries.Entry, len(list))
	for i, rec := range list {
		e, err := entries.FromRecord(rec)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				err = appErr.WithDetail("index", i)
			}
			h.Error(c, err)
			return
		}
		batch[i] = e
	}

	n, err := h.service.Import(c.Request.Context(), batch)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.ImportResponse{Imported: n})
}
