// Package metrics exposes Prometheus metrics for HTTP traffic and the
// publishing workflow.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Registry = prometheus.NewRegistry()

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)

	PostsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pixelpress_posts_created_total", Help: "Posts created, by initial state"},
		[]string{"state"},
	)
	CommentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pixelpress_comments_created_total", Help: "Comments created, by moderation state"},
		[]string{"state"},
	)
	LikeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pixelpress_like_toggles_total", Help: "Like toggles, by resulting action"},
		[]string{"action"},
	)
	PostViews = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "pixelpress_post_views_total", Help: "Post page views"},
	)
	ImageProcessing = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pixelpress_image_processing_seconds",
			Help:    "Time spent resizing and encoding uploads",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpReqTotal, httpLatency,
		PostsCreated, CommentsCreated, LikeToggles, PostViews, ImageProcessing,
	)
}

// Middleware records count and latency per route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		if path == "" || path == "/" && c.Path() != "/" {
			path = "unmatched"
		}
		httpReqTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		httpLatency.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

func State(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}

func Moderation(approved bool) string {
	if approved {
		return "approved"
	}
	return "pending"
}

func LikeAction(liked bool) string {
	if liked {
		return "like"
	}
	return "unlike"
}
