// Generates sample mailscrub metrics so Grafana dashboards can be built
// and tested without pointing a real bot at real chats.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mirrors the instruments in internal/metrics.
var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailscrub_updates_total",
			Help: "Total Telegram updates handled",
		},
		[]string{"kind"},
	)
	cleaningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailscrub_cleanings_total",
			Help: "Total cleaning runs",
		},
		[]string{"outcome"},
	)
	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailscrub_emails_total",
			Help: "Total addresses processed",
		},
		[]string{"disposition"},
	)
	cleaningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mailscrub_cleaning_duration_seconds",
			Help:    "Cleaning pipeline duration",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
	)
)

var (
	updateKinds  = []string{"text", "document", "command"}
	outcomes     = []string{"ok", "empty", "decode_error"}
	dispositions = []string{"unique", "duplicate", "invalid"}
)

func init() {
	prometheus.MustRegister(
		updatesTotal,
		cleaningsTotal,
		emailsTotal,
		cleaningDuration,
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	generateSampleData()

	ctx, cancel := context.WithCancel(context.Background())
	go generateContinuousData(ctx)

	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":" + port}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
		server.Shutdown(context.Background())
	}()

	fmt.Printf("Sample metrics server running on http://localhost:%s/metrics\n", port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("\nTo use with Prometheus, add this to prometheus.yml:")
	fmt.Printf("  - job_name: 'mailscrub-test'\n    static_configs:\n      - targets: ['localhost:%s']\n", port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// generateSampleData seeds a believable spread: mostly text updates,
// mostly ok outcomes, unique addresses dominating.
func generateSampleData() {
	for i := 0; i < 200; i++ {
		updatesTotal.WithLabelValues(weightedKind()).Inc()
	}
	for i := 0; i < 150; i++ {
		cleaningsTotal.WithLabelValues(weightedOutcome()).Inc()
		cleaningDuration.Observe(sampleDuration())
	}
	emailsTotal.WithLabelValues("unique").Add(float64(rand.Intn(3000) + 1000))
	emailsTotal.WithLabelValues("duplicate").Add(float64(rand.Intn(800) + 100))
	emailsTotal.WithLabelValues("invalid").Add(float64(rand.Intn(200) + 20))
}

func generateContinuousData(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if rand.Float64() > 0.3 {
				updatesTotal.WithLabelValues(weightedKind()).Inc()
			}
			if rand.Float64() > 0.4 {
				cleaningsTotal.WithLabelValues(weightedOutcome()).Inc()
				cleaningDuration.Observe(sampleDuration())
				emailsTotal.WithLabelValues("unique").Add(float64(rand.Intn(50)))
				emailsTotal.WithLabelValues("duplicate").Add(float64(rand.Intn(10)))
				if rand.Float64() > 0.7 {
					emailsTotal.WithLabelValues("invalid").Add(float64(rand.Intn(5)))
				}
			}
		}
	}
}

func weightedKind() string {
	r := rand.Float64()
	switch {
	case r < 0.6:
		return updateKinds[0]
	case r < 0.9:
		return updateKinds[1]
	default:
		return updateKinds[2]
	}
}

func weightedOutcome() string {
	r := rand.Float64()
	switch {
	case r < 0.8:
		return outcomes[0]
	case r < 0.95:
		return outcomes[1]
	default:
		return outcomes[2]
	}
}

// sampleDuration skews small: most cleanings finish in milliseconds,
// xlsx workbooks occasionally take longer.
func sampleDuration() float64 {
	if rand.Float64() > 0.9 {
		return rand.Float64() * 2.0
	}
	return rand.Float64() * 0.05
}
