package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersCancelled prometheus.Counter
	ordersRejected  prometheus.Counter
	statusChanges   *prometheus.CounterVec

	// Гистограмма времени оформления заказа
	checkoutDuration prometheus.Histogram

	// Счётчики сопутствующих событий
	stockRejections prometheus.Counter
	timelineEvents  prometheus.Counter
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders successfully placed",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		ordersRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Total number of order placements rejected before persistence",
		}),
		statusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_order_status_changes_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"to_status"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_checkout_duration_seconds",
			Help:    "Duration of order placement in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		stockRejections: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_stock_rejections_total",
			Help: "Total number of operations rejected due to insufficient or disabled stock",
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}),
	}
}

// RecordOrderCreated увеличивает счётчик оформленных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *OrderMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
}

// RecordOrderRejected увеличивает счётчик отклонённых оформлений.
func (m *OrderMetrics) RecordOrderRejected() {
	m.ordersRejected.Inc()
}

// RecordStatusChange увеличивает счётчик переходов в целевой статус.
func (m *OrderMetrics) RecordStatusChange(toStatus string) {
	m.statusChanges.WithLabelValues(toStatus).Inc()
}

// RecordCheckoutDuration записывает время оформления заказа.
func (m *OrderMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordStockRejection увеличивает счётчик отказов по остаткам.
func (m *OrderMetrics) RecordStockRejection() {
	m.stockRejections.Inc()
}

// RecordTimelineEvent увеличивает счётчик событий истории заказа.
func (m *OrderMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
