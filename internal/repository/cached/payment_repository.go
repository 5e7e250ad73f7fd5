package cached

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/pkg/redis"
	"github.com/frontandrew/parking/internal/repository"
)

const latestPaymentCachePrefix = "payment:latest:"

// Cache - операции кэша, которые нужны репозиториям (реализует redis.Client)
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// PaymentRepository добавляет кэширование последней оплаты по номеру
type PaymentRepository struct {
	repo   repository.PaymentRepository
	cache  Cache
	ttl    time.Duration
	logger logger.Logger
}

// NewPaymentRepository создает новый кэшируемый payment repository
func NewPaymentRepository(repo repository.PaymentRepository, cache Cache, ttl time.Duration, logger logger.Logger) *PaymentRepository {
	return &PaymentRepository{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Settle проводит выезд и обновляет кэш квитанции после фиксации транзакции
func (r *PaymentRepository) Settle(ctx context.Context, payment *domain.Payment) error {
	if err := r.repo.Settle(ctx, payment); err != nil {
		return err
	}

	// Новая оплата и есть последняя: кладем ее сразу, чтобы квитанция не ходила в БД
	r.store(ctx, payment)
	return nil
}

// GetLatestByPlate возвращает последнюю оплату (с кэшированием)
func (r *PaymentRepository) GetLatestByPlate(ctx context.Context, plate string) (*domain.Payment, error) {
	cacheKey := latestPaymentCachePrefix + plate

	// 1. Проверяем кэш
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var payment domain.Payment
		if err := json.Unmarshal([]byte(cached), &payment); err == nil {
			return &payment, nil
		}
		// Битое значение - перезапишем из БД
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		// Ошибка кэша не критична, продолжаем с БД
		r.logger.Warn("Payment cache read failed", map[string]interface{}{
			"plate": plate,
			"error": err.Error(),
		})
	}

	// 2. Cache miss - идем в БД
	payment, err := r.repo.GetLatestByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш
	r.store(ctx, payment)
	return payment, nil
}

// ListByPlate - история не кэшируется
func (r *PaymentRepository) ListByPlate(ctx context.Context, plate string) ([]*domain.Payment, error) {
	return r.repo.ListByPlate(ctx, plate)
}

// ListByExitBetween - отчеты не кэшируются
func (r *PaymentRepository) ListByExitBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	return r.repo.ListByExitBetween(ctx, from, to)
}

func (r *PaymentRepository) store(ctx context.Context, payment *domain.Payment) {
	data, err := json.Marshal(payment)
	if err != nil {
		return
	}

	cacheKey := latestPaymentCachePrefix + payment.Plate
	if err := r.cache.Set(ctx, cacheKey, string(data), r.ttl); err != nil {
		// Старое значение может быть неактуальным, удаляем его
		_ = r.cache.Del(ctx, cacheKey)
		r.logger.Warn("Payment cache write failed", map[string]interface{}{
			"plate": payment.Plate,
			"error": err.Error(),
		})
	}
}
