// Package metrics собирает и отдаёт метрики Prometheus: попытки аутентификации
// и HTTP-ответы по методу и коду.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector хранит счётчики сервиса.
type Collector struct {
	authAttempts *prometheus.CounterVec
	responses    *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует счётчики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_tracker_auth_attempts_total",
			Help: "Попытки регистрации, входа, проверки токена и выхода по результату",
		}, []string{"op", "outcome"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expense_tracker_http_responses_total",
			Help: "HTTP-ответы по методу и коду статуса",
		}, []string{"method", "code"}),
	}

	reg.MustRegister(c.authAttempts, c.responses)
	return c
}

// AuthAttempt учитывает попытку операции аутентификации.
func (c *Collector) AuthAttempt(op, outcome string) {
	c.authAttempts.WithLabelValues(op, outcome).Inc()
}

// Middleware считает ответы по методу и коду статуса.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.responses.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}

// Handler возвращает обработчик для скрейпа Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
