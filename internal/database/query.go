package database

import (
	"context"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Query executes a raw SurrealQL query with parameters and returns the rows
// of the first statement. It's a generic function that can unmarshal results
// into any type T.
//
// Example:
//
//	query := "SELECT * FROM user WHERE provider = $provider"
//	users, err := Query[domain.User](ctx, db, query, map[string]any{"provider": "google"})
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(err, "query execution failed").WithQuery(query)
	}
	if queryResults == nil || len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// QueryOne executes a query and returns a single result.
// If no results are found, it returns nil, nil.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	results, err := Query[T](ctx, db, withLimit(query), params)
	if err != nil {
		return nil, err // Error is already wrapped by the Query function
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// Execute runs a query that doesn't return rows (CREATE, UPDATE, DELETE, DEFINE)
// and only reports whether it failed.
func Execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
		return NewDBError(err, "query execution failed").WithQuery(query)
	}
	return nil
}

// withLimit appends LIMIT 1 to SELECT statements that don't have one.
// CREATE/UPDATE/DELETE statements don't support LIMIT.
func withLimit(query string) string {
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") && !hasLimitClause(trimmed) && !hasFetchClause(trimmed) {
		return trimmed + " LIMIT 1"
	}
	return query
}

// hasLimitClause checks if the query already has a LIMIT clause
func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}

// hasFetchClause reports a trailing FETCH clause, which must come after LIMIT;
// such queries are expected to carry their own LIMIT.
func hasFetchClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " FETCH ")
}
