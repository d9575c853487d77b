package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único (23505). La usan
// los inserts con clave natural: la referencia de transacciones (que se
// regenera y reintenta ante colisión), el SKU de productos y el código de
// bodegas. El fallback sobre el texto cubre errores ya envueltos por drivers
// o pools que no exponen *pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}
