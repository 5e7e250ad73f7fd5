package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewVehicle проверяет валидацию полей автомобиля
func TestNewVehicle(t *testing.T) {
	tests := []struct {
		name        string
		plate       string
		vehicleType string
		model       string
		color       string
		expectedErr error
	}{
		{"корректные данные", "ABC1D23", "car", "Corolla", "Prata", nil},
		{"цвет из двух слов", "ABC1D23", "car", "Corolla", "azul marinho", nil},
		{"цвет с диакритикой", "ABC1D23", "car", "Corolla", "Marrom Café", nil},
		{"пустой номер", "   ", "car", "Corolla", "Prata", ErrInvalidLicensePlate},
		{"пустой тип", "ABC1D23", " ", "Corolla", "Prata", ErrInvalidVehicleType},
		{"пустая модель", "ABC1D23", "car", "", "Prata", ErrInvalidVehicleModel},
		{"модель из одного символа", "ABC1D23", "car", "X", "Prata", ErrInvalidVehicleModel},
		{"модель только из цифр", "ABC1D23", "car", "2020", "Prata", ErrInvalidVehicleModel},
		{"пустой цвет", "ABC1D23", "car", "Corolla", "", ErrInvalidVehicleColor},
		{"цвет только из цифр", "ABC1D23", "car", "Corolla", "123", ErrInvalidVehicleColor},
		{"цвет со спецсимволами", "ABC1D23", "car", "Corolla", "azul@", ErrInvalidVehicleColor},
		{"слишком короткий цвет", "ABC1D23", "car", "Corolla", "az", ErrInvalidVehicleColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVehicle(tt.plate, tt.vehicleType, tt.model, tt.color)
			if tt.expectedErr != nil {
				assert.Nil(t, v)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

// TestNewVehicle_Normalization проверяет нормализацию полей
func TestNewVehicle_Normalization(t *testing.T) {
	v, err := NewVehicle("  abc 1d23 ", " car ", " Corolla ", " Prata ")
	require.NoError(t, err)

	assert.Equal(t, "ABC1D23", v.Plate)
	assert.Equal(t, "car", v.Type)
	assert.Equal(t, "Corolla", v.Model)
	assert.Equal(t, "Prata", v.Color)
}

func TestNormalizeLicensePlate(t *testing.T) {
	assert.Equal(t, "А123ВС777", NormalizeLicensePlate("а 123 вс 777"))
	assert.Equal(t, "", NormalizeLicensePlate("   "))
}

func TestVehicle_Validate(t *testing.T) {
	tests := []struct {
		name        string
		vehicle     Vehicle
		expectedErr error
	}{
		{"корректный автомобиль", Vehicle{Plate: "ABC1D23", Type: "car", Model: "Corolla", Color: "Prata"}, nil},
		{"пустой номер", Vehicle{Plate: "", Type: "car", Model: "Corolla", Color: "Prata"}, ErrInvalidLicensePlate},
		{"номер в нижнем регистре", Vehicle{Plate: "abc1234", Type: "car", Model: "Corolla", Color: "Prata"}, ErrInvalidLicensePlate},
		{"номер с пробелом", Vehicle{Plate: "ABC 1234", Type: "car", Model: "Corolla", Color: "Prata"}, ErrInvalidLicensePlate},
		{"пустой тип", Vehicle{Plate: "ABC1D23", Model: "Corolla", Color: "Prata"}, ErrInvalidVehicleType},
		{"некорректный цвет", Vehicle{Plate: "ABC1D23", Type: "car", Model: "Corolla", Color: "1"}, ErrInvalidVehicleColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vehicle.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
