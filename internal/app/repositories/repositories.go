package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tam/internal/db"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
	CheckinRepository      *CheckinRepository
	UserRepository         *UserRepository
	TxStore                *TxStore
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		EventRepository:        NewEventRepository(database.Pool),
		RegistrationRepository: NewRegistrationRepository(database.Pool),
		CheckinRepository:      NewCheckinRepository(database.Pool),
		UserRepository:         NewUserRepository(database.Pool),
		TxStore:                NewTxStore(database),
	}
}

// Cursor is a keyset pagination request: the page after LastID in the given order
type Cursor struct {
	LastID   int64
	PageSize int
	Desc     bool
}

// keysetPage appends the keyset predicate, ordering and limit for a cursor over table.
// column must be a trusted column name; the id column breaks ties. A LastID that no
// longer exists restarts from the first page.
func keysetPage(q squirrel.SelectBuilder, table, column string, cursor Cursor) squirrel.SelectBuilder {
	dir, cmp := "ASC", ">"
	if cursor.Desc {
		dir, cmp = "DESC", "<"
	}

	if cursor.LastID > 0 {
		q = q.Where(fmt.Sprintf(
			"(NOT EXISTS (SELECT 1 FROM %[1]s WHERE id = ?) OR (%[2]s, id) %[3]s (SELECT %[2]s, id FROM %[1]s WHERE id = ?))",
			table, column, cmp,
		), cursor.LastID, cursor.LastID)
	}

	return q.OrderBy(column+" "+dir, "id "+dir).Limit(uint64(cursor.PageSize + 1))
}

// trimPage drops the look-ahead row fetched by keysetPage
func trimPage[T any](items []T, pageSize int) ([]T, bool) {
	if len(items) > pageSize {
		return items[:pageSize], true
	}
	return items, false
}

// sortColumn resolves a client sort key against an allow-list
func sortColumn(allowed map[string]string, key, fallback string) string {
	if column, ok := allowed[strings.TrimSpace(key)]; ok {
		return column
	}
	return fallback
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ db.Querier = (*pgxpool.Pool)(nil)
