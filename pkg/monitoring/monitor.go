package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 上传生命周期指标
	UploadSessionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_upload_sessions_active",
			Help: "Number of upload sessions currently uploading or processing",
		},
	)

	UploadOutcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_upload_outcomes_total",
			Help: "Terminal upload session outcomes",
		},
		[]string{"outcome"}, // ready / error / cancelled
	)

	// WebSocket 推送指标
	WSClientGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_status_ws_clients",
			Help: "Connected video status WebSocket clients",
		},
	)

	WSEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_status_events_total",
			Help: "Video status events pushed to clients",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(UploadSessionGauge)
	prometheus.MustRegister(UploadOutcomeCounter)
	prometheus.MustRegister(WSClientGauge)
	prometheus.MustRegister(WSEventCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
