package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/urfave/cli/v3"

	appctx "linkarchive/internal/core/context"
	"linkarchive/internal/domain/entries"
	"linkarchive/internal/infrastructure/search/qfilter"
	"linkarchive/internal/infrastructure/storage/postgres"
	"linkarchive/internal/infrastructure/storage/postgres/entry_repo"
	"linkarchive/internal/infrastructure/storage/postgres/tablesearch"
	"linkarchive/pkg/logger"
	"linkarchive/pkg/records"
)

func pagingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Usage: "1-based page", Value: 1},
		&cli.IntFlag{Name: "page-size", Usage: "rows per page", Value: entries.DefaultPageSize},
		&cli.StringFlag{Name: "order", Usage: "order field, '-' prefix for descending"},
	}
}

func newConditionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "conditions",
		Usage:  "Print the lookup conditions and the record filter expression",
		Action: conditionsAction,
	}
}

func newSQLCommand() *cli.Command {
	return &cli.Command{
		Name:   "sql",
		Usage:  "Print the SQL the search runs against the entries table",
		Flags:  pagingFlags(),
		Action: sqlAction,
	}
}

func newFilterCommand() *cli.Command {
	return &cli.Command{
		Name:   "filter",
		Usage:  "Print the records of a JSON file that match the search",
		Flags:  []cli.Flag{newInputFlag()},
		Action: filterAction,
	}
}

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:   "search",
		Usage:  "Search the entries table, printing one JSON line per entry",
		Flags:  append([]cli.Flag{newDSNFlag()}, pagingFlags()...),
		Action: searchAction,
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:   "import",
		Usage:  "Load entries from a JSON file into the entries table",
		Flags:  []cli.Flag{newDSNFlag(), newInputFlag()},
		Action: importAction,
	}
}

type diagnostics struct {
	Errors        []string         `json:"errors,omitempty"`
	NotTranslated map[string][]any `json:"notTranslated,omitempty"`
}

func conditionsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	proc := qfilter.NewEquationProcessor(cmd.String(searchFlag), qfilter.NewEngine(s.mapping, s.defaults))
	q, err := proc.Conditions()
	if err != nil {
		return err
	}
	expr, err := qfilter.Expression(q)
	if err != nil {
		return err
	}

	return printJSON(cmd.Root().Writer, struct {
		Conditions string `json:"conditions"`
		Expression string `json:"expression"`
		diagnostics
	}{q.String(), expr, diagnostics{proc.Errors(), proc.NotTranslatedConditions()}})
}

func searchQuery(cmd *cli.Command) entries.SearchQuery {
	return entries.SearchQuery{
		Search:   cmd.String(searchFlag),
		Page:     int(cmd.Int("page")),
		PageSize: int(cmd.Int("page-size")),
		OrderBy:  cmd.String("order"),
	}
}

func (s *settings) repo(txManager *postgres.TxManager) *entry_repo.EntryRepo {
	return entry_repo.New(txManager, entry_repo.Config{
		Mapping:       s.mapping,
		DefaultFields: s.defaults,
		IgnoreCase:    s.cfg.Search.IgnoreCase,
	})
}

func sqlAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	table := tablesearch.NewAlchemySearch[entries.Entry](nil, s.repo(nil).Params(searchQuery(cmd)), nil)
	sb, err := table.SelectQuery()
	if err != nil {
		return err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return err
	}
	if args == nil {
		args = []any{}
	}

	return printJSON(cmd.Root().Writer, struct {
		SQL  string `json:"sql"`
		Args []any  `json:"args"`
		diagnostics
	}{sql, args, diagnostics{table.Errors(), table.NotTranslatedConditions()}})
}

func filterAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	list, err := records.ReadFile(cmd.String(inputFlag))
	if err != nil {
		return err
	}

	search := cmd.String(searchFlag)
	ctx = appctx.WithSearch(ctx, search)
	f := qfilter.NewFilter(url.Values{qfilter.SearchParam: {search}}, list, qfilter.NewEngine(s.mapping, s.defaults))

	matched, err := f.FilteredObjects()
	if err != nil {
		return err
	}
	if errs := f.Errors(); len(errs) > 0 {
		logger.Warn(ctx, "search not fully translated, nothing matches",
			"errors", errs,
			"not_translated", f.NotTranslatedConditions(),
		)
	}
	logger.Debug(ctx, "filtered records", "input", len(list), "matched", len(matched))

	return printJSON(cmd.Root().Writer, matched)
}

func withTxManager(ctx context.Context, s *settings, cmd *cli.Command, fn func(txm *postgres.TxManager) error) error {
	dsn, err := s.dsn(cmd)
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(postgres.NewTxManager(pool, s.cfg.Database.StatementTimeout))
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	q := searchQuery(cmd)
	ctx = appctx.WithSearch(ctx, q.Search)
	out := cmd.Root().Writer

	return withTxManager(ctx, s, cmd, func(txm *postgres.TxManager) error {
		return txm.ReadOnly(ctx, func(ctx context.Context) error {
			enc := json.NewEncoder(out)
			search := tablesearch.NewAlchemySearch[entries.Entry](txm.GetQuerier(ctx), s.repo(txm).Params(q),
				func(ctx context.Context, e entries.Entry) error {
					return enc.Encode(e)
				})

			page, err := search.Search(ctx)
			if err != nil {
				return err
			}
			if errs := search.Errors(); len(errs) > 0 {
				logger.Warn(ctx, "search not fully translated, nothing matches",
					"errors", errs,
					"not_translated", search.NotTranslatedConditions(),
				)
			}
			logger.Info(ctx, "search completed", "total", page.TotalCount, "returned", len(page.Items))
			return nil
		})
	})
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	list, err := readEntries(cmd.String(inputFlag))
	if err != nil {
		return err
	}

	return withTxManager(ctx, s, cmd, func(txm *postgres.TxManager) error {
		svc := entries.NewService(entries.ServiceConfig{Repo: s.repo(txm)})
		n, err := svc.Import(ctx, list)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.Root().Writer, "imported %d entries\n", n)
		return err
	})
}

func readEntries(path string) ([]entries.Entry, error) {
	list, err := records.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out := make([]entries.Entry, len(list))
	for i, rec := range list {
		e, err := entries.FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		out[i] = e
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
