package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HealthFunc func(ctx context.Context) error

// Check é uma dependência verificada pelo /healthz (ex.: "kv", "remote")
type Check struct {
	Name string
	Fn   HealthFunc
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Handler expõe /metrics e /healthz. Qualquer check com erro responde 503
// e o corpo diz qual dependência falhou.
func Handler(timeout time.Duration, checks ...Check) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep := healthReport{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Fn(ctx); err != nil {
				rep.Checks[c.Name] = err.Error()
				rep.Status = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			rep.Checks[c.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(rep)
	})
	return mux
}

// StartMetricsServer sobe /metrics e /healthz numa goroutine; o chamador faz Shutdown
func StartMetricsServer(port string, log *zap.Logger, checks ...Check) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(2*time.Second, checks...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}()

	return srv
}
