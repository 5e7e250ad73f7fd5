package parking

import (
	"fmt"

	"github.com/frontandrew/parking/internal/domain"
)

// CapacityGuard считает занятые места и не пускает сверх вместимости.
// Не потокобезопасен: синхронизацию обеспечивает Lifecycle.
type CapacityGuard struct {
	capacity int
	occupied int
}

// NewCapacityGuard создает guard с фиксированной вместимостью
func NewCapacityGuard(capacity int) (*CapacityGuard, error) {
	if capacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	return &CapacityGuard{capacity: capacity}, nil
}

// TryReserve занимает одно место или возвращает ErrCapacityExceeded
func (g *CapacityGuard) TryReserve() error {
	if g.occupied >= g.capacity {
		return domain.ErrCapacityExceeded
	}
	g.occupied++
	return nil
}

// Release освобождает место.
// Освобождение при нулевой занятости означает потерянную резервацию - это ошибка программы.
func (g *CapacityGuard) Release() {
	if g.occupied <= 0 {
		panic(fmt.Sprintf("parking: capacity guard underflow (capacity %d)", g.capacity))
	}
	g.occupied--
}

// CurrentOccupancy возвращает число занятых мест
func (g *CapacityGuard) CurrentOccupancy() int {
	return g.occupied
}

// Capacity возвращает вместимость
func (g *CapacityGuard) Capacity() int {
	return g.capacity
}

// Available возвращает число свободных мест
func (g *CapacityGuard) Available() int {
	return g.capacity - g.occupied
}
