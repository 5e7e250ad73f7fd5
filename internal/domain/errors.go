package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки - используются во всех слоях приложения.
// Уточняющие ошибки оборачивают базовый вид через %w, поэтому errors.Is
// срабатывает и на уточнение, и на вид.

// Базовые виды ошибок ядра
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyRegistered = errors.New("vehicle already registered")
	ErrNotRegistered     = errors.New("vehicle not registered")
	ErrInvalidSpot       = errors.New("invalid spot")
	ErrCapacityExceeded  = errors.New("parking lot is full")
)

// Vehicle errors
var (
	ErrInvalidLicensePlate = fmt.Errorf("%w: license plate must not be empty", ErrInvalidArgument)
	ErrInvalidVehicleType  = fmt.Errorf("%w: vehicle type must not be empty", ErrInvalidArgument)
	ErrInvalidVehicleModel = fmt.Errorf("%w: invalid vehicle model", ErrInvalidArgument)
	ErrInvalidVehicleColor = fmt.Errorf("%w: invalid vehicle color", ErrInvalidArgument)
	ErrMissingVehicle      = fmt.Errorf("%w: vehicle must not be nil", ErrInvalidArgument)
)

// Entry / spot errors
var (
	ErrSpotOccupied      = fmt.Errorf("%w: spot already occupied", ErrInvalidSpot)
	ErrEmptyCancelReason = fmt.Errorf("%w: cancellation reason must not be empty", ErrInvalidArgument)
)

// Tariff / payment errors
var (
	ErrMissingTimestamp = fmt.Errorf("%w: entry and exit time are required", ErrInvalidArgument)
	ErrExitBeforeEntry  = fmt.Errorf("%w: exit time is before entry time", ErrInvalidArgument)
	ErrNegativeFee      = fmt.Errorf("%w: fee must not be negative", ErrInvalidArgument)
	ErrInvalidRates     = fmt.Errorf("%w: invalid rate table", ErrInvalidArgument)
	ErrPaymentNotFound  = errors.New("payment not found")
)

// ParkingLot errors
var (
	ErrInvalidCapacity       = fmt.Errorf("%w: capacity must be greater than zero", ErrInvalidArgument)
	ErrInvalidParkingLotData = fmt.Errorf("%w: parking lot name and address are required", ErrInvalidArgument)
	ErrParkingLotNotFound    = errors.New("parking lot not found")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)
