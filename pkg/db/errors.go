package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorKind is the closed classification of storage errors the webhook
// reconciliation logic branches on. Handlers never inspect raw driver
// messages; they go through Classify.
type ErrorKind int

const (
	// KindOther is any error that is not one of the tolerated classes.
	// It always propagates to the caller.
	KindOther ErrorKind = iota
	// KindDuplicateKey is a unique-constraint violation, the expected
	// outcome of webhook at-least-once redelivery.
	KindDuplicateKey
	// KindMissingRelation means the target table does not exist. Optional
	// tables (the earnings ledger) tolerate this.
	KindMissingRelation
	// KindMissingColumn means an optional column is absent from the target
	// schema, the trigger for the tolerant-write fallback chain.
	KindMissingColumn
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeUndefinedTable  = "42P01"
	pgCodeUndefinedColumn = "42703"
)

// Classify maps a storage error onto ErrorKind using the Postgres error code
// when a driver error is present, falling back to message matching so the
// sqlite-backed tests classify identically.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	if code := sqlState(err); code != "" {
		switch code {
		case pgCodeUniqueViolation:
			return KindDuplicateKey
		case pgCodeUndefinedTable:
			return KindMissingRelation
		case pgCodeUndefinedColumn:
			return KindMissingColumn
		}
		return KindOther
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key value"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		return KindDuplicateKey
	case strings.Contains(msg, "no such table"):
		return KindMissingRelation
	case strings.Contains(msg, "no such column"):
		return KindMissingColumn
	case strings.Contains(msg, "does not exist"):
		if strings.Contains(msg, "column") {
			return KindMissingColumn
		}
		return KindMissingRelation
	}
	return KindOther
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return Classify(err) == KindDuplicateKey
}

// IsMissingRelation reports whether err references a table that does not exist.
func IsMissingRelation(err error) bool {
	return Classify(err) == KindMissingRelation
}

// IsMissingColumn reports whether err references a column that does not exist.
func IsMissingColumn(err error) bool {
	return Classify(err) == KindMissingColumn
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
