package ledger

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NewReference genera la referencia de una transacción:
// prefijo de 3 letras según el tipo + timestamp en milisegundos + sufijo
// aleatorio (0–999). La unicidad es probabilística; el insert reintenta con una
// referencia nueva si el constraint único la rechaza.
func NewReference(txType string) string {
	prefix := strings.ToUpper(txType)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
