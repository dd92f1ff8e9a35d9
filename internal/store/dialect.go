package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type dialect struct {
	name         string
	driverName   string
	docType      string
	timeType     string
	now          string
	docParam     string
	pragmas      []string
	singleWriter bool
	isDuplicate  func(error) bool
}

var (
	postgresDialect = dialect{
		name:        "postgres",
		driverName:  "postgres",
		docType:     "JSONB",
		timeType:    "TIMESTAMPTZ",
		now:         "NOW()",
		docParam:    "CAST($2 AS JSONB)",
		isDuplicate: isPostgresUniqueViolation,
	}
	sqliteDialect = dialect{
		name:       "sqlite",
		driverName: "sqlite",
		docType:    "TEXT",
		timeType:   "TEXT",
		now:        "CURRENT_TIMESTAMP",
		docParam:   "$2",
		pragmas: []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout = 5000",
		},
		singleWriter: true,
		isDuplicate:  isSQLiteConstraint,
	}
)

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "":
		return postgresDialect, nil
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func (d dialect) createTable(c Collection) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc %s NOT NULL,
		loaded_at %s NOT NULL DEFAULT %s
	)`, c, d.docType, d.timeType, d.now)
}

func (d dialect) insertQuery(c Collection) string {
	return fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, %s)", c, d.docParam)
}

const pgUniqueViolation = "23505"

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

const sqliteConstraint = 19

func isSQLiteConstraint(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteConstraint {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
