// Package entry_repo stores entries in PostgreSQL.
package entry_repo

import (
	"context"

	"linkarchive/internal/domain/entries"
	"linkarchive/internal/domain/omnisearch"
	"linkarchive/internal/infrastructure/storage/postgres"
	"linkarchive/internal/infrastructure/storage/postgres/tablesearch"
)

// Compile-time check that EntryRepo implements entries.Repository.
var _ entries.Repository = (*EntryRepo)(nil)

// Config configures search over the entries table.
type Config struct {
	Mapping       *omnisearch.Mapping
	DefaultFields []string // columns matched by bare terms
	IgnoreCase    bool
}

// EntryRepo implements entries.Repository.
type EntryRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	cfg       Config
	columns   []string
}

// New creates a new entry repository.
func New(txManager *postgres.TxManager, cfg Config) *EntryRepo {
	if cfg.Mapping == nil {
		cfg.Mapping = entries.NewMapping(nil)
	}
	if len(cfg.DefaultFields) == 0 {
		cfg.DefaultFields = entries.DefaultSearchFields
	}
	return &EntryRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		cfg:       cfg,
		columns:   postgres.ExtractDBColumns[entries.Entry](),
	}
}

// Params returns the table search parameters for q.
func (r *EntryRepo) Params(q entries.SearchQuery) tablesearch.Params {
	return tablesearch.Params{
		Table:          entries.TableName,
		Columns:        r.columns,
		Query:          q.Search,
		Mapping:        r.cfg.Mapping,
		DefaultColumns: r.cfg.DefaultFields,
		RowsPerPage:    q.PageSize,
		Page:           q.Page,
		IgnoreCase:     r.cfg.IgnoreCase,
		OrderBy:        q.OrderBy,
	}
}

// Search runs q in a read-only transaction.
func (r *EntryRepo) Search(ctx context.Context, q entries.SearchQuery) (entries.SearchResult, error) {
	var result entries.SearchResult

	err := r.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		s := tablesearch.NewAlchemySearch[entries.Entry](r.txManager.GetQuerier(ctx), r.Params(q), nil)

		page, err := s.Search(ctx)
		if err != nil {
			return err
		}

		result = entries.SearchResult{
			Items:         page.Items,
			TotalCount:    page.TotalCount,
			Page:          page.Page,
			PageSize:      page.RowsPerPage,
			Errors:        s.Errors(),
			NotTranslated: s.NotTranslatedConditions(),
		}
		return nil
	})

	return result, err
}

// Import copies entries into the table in one transaction.
func (r *EntryRepo) Import(ctx context.Context, list []entries.Entry) (int64, error) {
	rows := make([][]any, len(list))
	for i, e := range list {
		rows[i] = postgres.StructValues(e, r.columns)
	}

	var n int64
	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		n, err = r.inserter.CopyFromSlice(ctx, entries.TableName, r.columns, rows)
		return err
	})
	return n, err
}
