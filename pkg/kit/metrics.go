package kit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelService    = "service"
	labelMethod     = "method"
	labelPath       = "path"
	labelStatus     = "status"
	labelOp         = "op"
	labelCollection = "collection"

	defaultStatusCode = http.StatusOK
)

type Metrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{labelService, labelMethod, labelPath, labelStatus},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP latency",
			},
			[]string{labelService, labelMethod, labelPath},
		),
	}

	reg.MustRegister(m.Requests, m.Latency)
	return m
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) Middleware(service string, pathLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{
				ResponseWriter: w,
				status:         defaultStatusCode,
			}

			start := time.Now()
			next.ServeHTTP(sw, r)

			path := pathLabel(r)
			m.Latency.WithLabelValues(service, r.Method, path).
				Observe(time.Since(start).Seconds())

			m.Requests.WithLabelValues(service, r.Method, path, strconv.Itoa(sw.status)).
				Inc()
		})
	}
}

// StateMetrics counts storefront state transitions. It satisfies the
// recorder interfaces of the cart and checkout packages.
type StateMetrics struct {
	Mutations       *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	Orders          prometheus.Counter
}

func NewStateMetrics(reg prometheus.Registerer) *StateMetrics {
	m := &StateMetrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_mutations_total",
				Help: "Cart and wishlist mutations by operation",
			},
			[]string{labelOp},
		),
		PersistFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_persist_failures_total",
				Help: "Failed write-backs of session state",
			},
			[]string{labelCollection},
		),
		Orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders placed through checkout",
		}),
	}

	reg.MustRegister(m.Mutations, m.PersistFailures, m.Orders)
	return m
}

func (m *StateMetrics) Mutation(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *StateMetrics) PersistFailed(collection string) {
	m.PersistFailures.WithLabelValues(collection).Inc()
}

func (m *StateMetrics) OrderPlaced() {
	m.Orders.Inc()
}
