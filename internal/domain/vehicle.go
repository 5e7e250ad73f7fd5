package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minModelLength = 2
	minColorLength = 3
)

// Vehicle - автомобиль на территории парковки
// Идентичность определяется номером (Plate). После NewVehicle не изменяется.
type Vehicle struct {
	Plate string `json:"plate"`
	Type  string `json:"type"`
	Model string `json:"model"`
	Color string `json:"color"`
}

// NormalizeLicensePlate нормализует номер автомобиля (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

// NewVehicle создает автомобиль, проверяя все поля
func NewVehicle(plate, vehicleType, model, color string) (*Vehicle, error) {
	vehicle := &Vehicle{
		Plate: NormalizeLicensePlate(plate),
		Type:  strings.TrimSpace(vehicleType),
		Model: strings.TrimSpace(model),
		Color: strings.TrimSpace(color),
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Validate проверяет автомобиль, собранный не через NewVehicle.
// Номер должен быть уже нормализован: по нему ищется запись при выезде.
func (v *Vehicle) Validate() error {
	if v.Plate == "" || NormalizeLicensePlate(v.Plate) != v.Plate {
		return ErrInvalidLicensePlate
	}
	if strings.TrimSpace(v.Type) == "" {
		return ErrInvalidVehicleType
	}
	if err := validateModel(strings.TrimSpace(v.Model)); err != nil {
		return err
	}
	return validateColor(strings.TrimSpace(v.Color))
}

func validateModel(model string) error {
	if model == "" || utf8.RuneCountInString(model) < minModelLength {
		return ErrInvalidVehicleModel
	}
	if isDigits(model) {
		return ErrInvalidVehicleModel
	}
	return nil
}

// validateColor: только буквы (и пробелы между словами), минимум 3 символа
func validateColor(color string) error {
	if color == "" || isDigits(color) {
		return ErrInvalidVehicleColor
	}
	for _, r := range color {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return ErrInvalidVehicleColor
		}
	}
	if utf8.RuneCountInString(color) < minColorLength {
		return ErrInvalidVehicleColor
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
