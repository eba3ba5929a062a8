package billing_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func denomsOf(values ...int64) []*entity.Denomination {
	out := make([]*entity.Denomination, 0, len(values))
	for _, v := range values {
		out = append(out, &entity.Denomination{Value: v, Status: entity.StatusEnabled})
	}
	return out
}

// El reparto siempre ataca primero la denominación más grande, sin importar el
// orden en que lleguen.
func TestAllocateChange_MayorAMenor(t *testing.T) {
	change := billing.AllocateChange(888, denomsOf(1, 100, 500, 10))

	assert.Equal(t, map[string]int64{
		"500": 1,
		"100": 3,
		"10":  8,
		"1":   8,
	}, change)
}

// 958 sobre [1000, 30]: 1000 no cabe, 30 cabe 31 veces y quedan 28 sin
// representar bajo la clave "remaining".
func TestAllocateChange_SobranteIrrepresentable(t *testing.T) {
	change := billing.AllocateChange(958, denomsOf(1000, 30))

	assert.Equal(t, map[string]int64{
		"30":        31,
		"remaining": 28,
	}, change)
}

// La suma de valor×cantidad más el sobrante reconstruye el saldo exacto.
func TestAllocateChange_ConservaElSaldo(t *testing.T) {
	denoms := denomsOf(500, 200, 100, 50, 20, 10, 5, 2, 1)
	for _, balance := range []int64{0, 1, 7, 42, 958, 1234, 99999} {
		change := billing.AllocateChange(balance, denoms)

		var total int64
		for key, count := range change {
			if key == entity.ChangeRemainingKey {
				total += count
				continue
			}
			value, err := strconv.ParseInt(key, 10, 64)
			assert.NoError(t, err)
			total += value * count
		}
		assert.Equal(t, balance, total, "balance %d debe conservarse", balance)
	}
}

// Saldo cero o negativo produce un mapa vacío, nunca nil entries ni "remaining".
func TestAllocateChange_SaldoCero(t *testing.T) {
	assert.Empty(t, billing.AllocateChange(0, denomsOf(500, 100)))
	assert.Empty(t, billing.AllocateChange(-5, denomsOf(500, 100)))
}

// Sin denominaciones, todo el saldo queda como sobrante.
func TestAllocateChange_SinDenominaciones(t *testing.T) {
	change := billing.AllocateChange(73, nil)

	assert.Equal(t, map[string]int64{"remaining": 73}, change)
}

// Determinismo: misma entrada, mismo resultado en llamadas repetidas.
func TestAllocateChange_Determinista(t *testing.T) {
	denoms := denomsOf(200, 50, 20, 2)
	first := billing.AllocateChange(777, denoms)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, billing.AllocateChange(777, denoms))
	}
}
