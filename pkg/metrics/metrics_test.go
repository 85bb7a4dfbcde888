package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LikeChanged("add")
	m.LikeChanged("add")
	m.LikeChanged("remove")
	m.RatingApplied("like")
	m.FriendChanged("add")
	m.CacheLookup("popular", true)
	m.CacheLookup("popular", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilmLikes.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilmLikes.WithLabelValues("remove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewRatings.WithLabelValues("like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FriendChanges.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("popular", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("popular", "miss")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.LikeChanged("add")
		m.RatingApplied("dislike")
		m.FriendChanged("remove")
		m.RecommendationServed(3)
		m.CacheLookup("recommendations", false)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecommendationServed(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "film_social_recommendation_size_count 1"))
}
