package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// invalidTextRepresentation is raised when a malformed literal, such as a
// non-UUID id, is bound to a typed column.
const invalidTextRepresentation = "22P02"

func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
