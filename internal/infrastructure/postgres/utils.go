package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation según la clase 23 de códigos SQLSTATE de PostgreSQL.
const codeUniqueViolation = "23505"

// pgErrCode extrae el SQLSTATE de un error del driver; cadena vacía si no aplica.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation detecta violaciones de constraint único. El fallback por
// texto cubre errores que el pool envuelve sin conservar el *pgconn.PgError.
func isUniqueViolation(err error) bool {
	if pgErrCode(err) == codeUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
