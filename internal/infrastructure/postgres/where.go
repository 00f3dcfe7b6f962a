package postgres

import (
	"fmt"
	"strings"
)

// where acumula condiciones con placeholders numerados para los listados con filtros.
type where struct {
	conds []string
	args  []any
}

// add agrega una condición con un argumento; cada "?" se reemplaza por su placeholder ($n).
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

// addRaw agrega una condición sin argumentos.
func (w *where) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET al final de la consulta y devuelve los argumentos completos.
func (w *where) page(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any(nil), w.args...), limitArg(limit), offsetArg(offset))
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
