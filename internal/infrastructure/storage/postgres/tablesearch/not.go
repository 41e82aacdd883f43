package tablesearch

import (
	"github.com/Masterminds/squirrel"
)

type notExpr struct {
	pred squirrel.Sqlizer
}

// Not negates a condition: NOT (pred).
func Not(pred squirrel.Sqlizer) squirrel.Sqlizer {
	if inner, ok := pred.(notExpr); ok {
		return inner.pred
	}
	return notExpr{pred: pred}
}

func (n notExpr) ToSql() (string, []any, error) {
	sql, args, err := n.pred.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}
