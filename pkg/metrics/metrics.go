package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "film_social"

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FilmLikes       *prometheus.CounterVec
	ReviewRatings   *prometheus.CounterVec
	FriendChanges   *prometheus.CounterVec
	Recommendations prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FilmLikes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "film_likes_total",
			Help:      "Film like changes by operation.",
		}, []string{"operation"}),
		ReviewRatings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_ratings_total",
			Help:      "Review rating transitions by action.",
		}, []string{"action"}),
		FriendChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "friend_changes_total",
			Help:      "Friend edge changes by operation.",
		}, []string{"operation"}),
		Recommendations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_size",
			Help:      "Number of films returned per recommendation request.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by query and outcome.",
		}, []string{"query", "result"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) LikeChanged(operation string) {
	if m == nil {
		return
	}
	m.FilmLikes.WithLabelValues(operation).Inc()
}

func (m *Metrics) RatingApplied(action string) {
	if m == nil {
		return
	}
	m.ReviewRatings.WithLabelValues(action).Inc()
}

func (m *Metrics) FriendChanged(operation string) {
	if m == nil {
		return
	}
	m.FriendChanges.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecommendationServed(size int) {
	if m == nil {
		return
	}
	m.Recommendations.Observe(float64(size))
}

func (m *Metrics) CacheLookup(query string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(query, result).Inc()
}
