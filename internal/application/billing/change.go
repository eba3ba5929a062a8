package billing

import (
	"sort"
	"strconv"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// AllocateChange reparte un saldo entero no negativo en denominaciones usando
// estrategia greedy de mayor a menor valor. El mapa resultante usa el valor de
// la denominación como clave ("500" -> 2). Si al agotar las denominaciones
// queda un sobrante irrepresentable, se registra bajo la clave "remaining".
// Función pura: mismas entradas producen siempre el mismo mapa.
func AllocateChange(balance int64, denominations []*entity.Denomination) map[string]int64 {
	change := make(map[string]int64)
	if balance <= 0 {
		return change
	}

	values := make([]int64, 0, len(denominations))
	for _, d := range denominations {
		if d.Value > 0 {
			values = append(values, d.Value)
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	remaining := balance
	for _, value := range values {
		count := remaining / value
		if count > 0 {
			change[strconv.FormatInt(value, 10)] = count
			remaining -= count * value
		}
	}
	if remaining > 0 {
		change[entity.ChangeRemainingKey] = remaining
	}
	return change
}
