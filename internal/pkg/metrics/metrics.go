package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder пишет события парковки в Prometheus метрики
type Recorder struct {
	admissions    prometheus.Counter
	rejections    *prometheus.CounterVec
	releases      prometheus.Counter
	revenue       prometheus.Counter
	billedHours   prometheus.Histogram
	cancellations prometheus.Counter
	occupied      prometheus.Gauge
	capacity      prometheus.Gauge
}

// NewRecorder регистрирует метрики в reg.
// Если reg nil, используется DefaultRegisterer. Уже зарегистрированные коллекторы переиспользуются.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{}
	var err error

	if r.admissions, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_admissions_total",
		Help: "Total number of admitted vehicles",
	})); err != nil {
		return nil, err
	}
	if r.rejections, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_admission_rejections_total",
		Help: "Total number of rejected admissions by reason",
	}, []string{"reason"})); err != nil {
		return nil, err
	}
	if r.releases, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_releases_total",
		Help: "Total number of paid exits",
	})); err != nil {
		return nil, err
	}
	if r.revenue, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_revenue_total",
		Help: "Total collected fees",
	})); err != nil {
		return nil, err
	}
	if r.billedHours, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "parking_billed_hours",
		Help:    "Billed hours per paid exit",
		Buckets: []float64{1, 2, 4, 6, 12, 24, 48},
	})); err != nil {
		return nil, err
	}
	if r.cancellations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_cancellations_total",
		Help: "Total number of cancelled admissions",
	})); err != nil {
		return nil, err
	}
	if r.occupied, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parking_occupied_spots",
		Help: "Currently occupied spots",
	})); err != nil {
		return nil, err
	}
	if r.capacity, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parking_capacity_spots",
		Help: "Facility capacity",
	})); err != nil {
		return nil, err
	}

	return r, nil
}

// register регистрирует коллектор или возвращает уже существующий
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAdmission учитывает успешный въезд
func (r *Recorder) RecordAdmission() {
	r.admissions.Inc()
}

// RecordRejection учитывает отказ во въезде
func (r *Recorder) RecordRejection(reason string) {
	r.rejections.WithLabelValues(reason).Inc()
}

// RecordRelease учитывает оплаченный выезд
func (r *Recorder) RecordRelease(billedHours int, fee float64) {
	r.releases.Inc()
	r.revenue.Add(fee)
	r.billedHours.Observe(float64(billedHours))
}

// RecordCancellation учитывает отмену въезда
func (r *Recorder) RecordCancellation() {
	r.cancellations.Inc()
}

// SetOccupancy обновляет занятость
func (r *Recorder) SetOccupancy(occupied, capacity int) {
	r.occupied.Set(float64(occupied))
	r.capacity.Set(float64(capacity))
}

// Handler возвращает HTTP handler для /metrics.
// Если gatherer nil, отдаются метрики DefaultGatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
