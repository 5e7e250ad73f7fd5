package domain

import (
	"math"
	"time"
)

// Rates - таблица тарифов парковки
// Значения неизменяемы: калькулятор получает копию при создании.
type Rates struct {
	OneHour         float64 `json:"one_hour"`          // Фиксированная цена первого часа
	SixHours        float64 `json:"six_hours"`         // Потолок до 6 часов включительно
	TwelveHours     float64 `json:"twelve_hours"`      // Потолок до 12 часов включительно
	TwentyFourHours float64 `json:"twenty_four_hours"` // Потолок до 24 часов включительно
	ExtraHour       float64 `json:"extra_hour"`        // Цена каждого дополнительного часа
}

// DefaultRates - рабочая таблица тарифов
var DefaultRates = Rates{
	OneHour:         10.0,
	SixHours:        35.0,
	TwelveHours:     55.0,
	TwentyFourHours: 120.0,
	ExtraHour:       8.0,
}

// LegacyRates - прежняя сокращенная таблица, доступна через конфигурацию
var LegacyRates = Rates{
	OneHour:         5.0,
	SixHours:        15.0,
	TwelveHours:     30.0,
	TwentyFourHours: 60.0,
	ExtraHour:       3.0,
}

// Validate проверяет, что тарифы неотрицательны и потолки не убывают
func (r Rates) Validate() error {
	if r.OneHour < 0 || r.SixHours < 0 || r.TwelveHours < 0 || r.TwentyFourHours < 0 || r.ExtraHour < 0 {
		return ErrInvalidRates
	}
	if r.OneHour > r.SixHours || r.SixHours > r.TwelveHours || r.TwelveHours > r.TwentyFourHours {
		return ErrInvalidRates
	}
	return nil
}

// TariffCalculator вычисляет стоимость стоянки по времени въезда и выезда.
// Без состояния, безопасен для конкурентного использования.
type TariffCalculator struct {
	rates Rates
}

// NewTariffCalculator создает калькулятор с заданной таблицей тарифов
func NewTariffCalculator(rates Rates) (*TariffCalculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &TariffCalculator{rates: rates}, nil
}

// Rates возвращает таблицу тарифов калькулятора
func (c *TariffCalculator) Rates() Rates {
	return c.rates
}

// Compute возвращает стоимость стоянки между entry и exit
func (c *TariffCalculator) Compute(entry, exit time.Time) (float64, error) {
	hours, err := BilledHours(entry, exit)
	if err != nil {
		return 0, err
	}
	return c.FeeForHours(hours), nil
}

// BilledHours переводит длительность стоянки в оплачиваемые часы.
// Считаются целые минуты, округление вверх до часа, минимум один час.
func BilledHours(entry, exit time.Time) (int, error) {
	if entry.IsZero() || exit.IsZero() {
		return 0, ErrMissingTimestamp
	}
	if exit.Before(entry) {
		return 0, ErrExitBeforeEntry
	}

	minutes := int64(exit.Sub(entry) / time.Minute)
	hours := int((minutes + 59) / 60)
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// FeeForHours применяет тарифную сетку к количеству оплачиваемых часов
func (c *TariffCalculator) FeeForHours(hours int) float64 {
	r := c.rates
	switch {
	case hours <= 1:
		return r.OneHour
	case hours <= 6:
		return c.capped(r.OneHour, r.SixHours, hours, 1)
	case hours <= 12:
		return c.capped(r.SixHours, r.TwelveHours, hours, 6)
	case hours <= 24:
		return c.capped(r.TwelveHours, r.TwentyFourHours, hours, 12)
	default:
		// После суток потолка нет
		return c.withExtra(r.TwentyFourHours, hours, 24)
	}
}

func (c *TariffCalculator) withExtra(base float64, hours, bandStart int) float64 {
	return base + c.rates.ExtraHour*float64(hours-bandStart)
}

func (c *TariffCalculator) capped(base, limit float64, hours, bandStart int) float64 {
	return math.Min(c.withExtra(base, hours, bandStart), limit)
}
