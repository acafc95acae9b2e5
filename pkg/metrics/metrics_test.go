package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/cards/{id}", "200"))
	RecordAPIRequest("GET", "/api/cards/{id}", "200", 12*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/cards/{id}", "200"))
	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordToggle(t *testing.T) {
	on := testutil.ToFloat64(ToggleOperations.WithLabelValues("post_like", "on"))
	off := testutil.ToFloat64(ToggleOperations.WithLabelValues("post_like", "off"))

	RecordToggle("post_like", true)
	RecordToggle("post_like", false)

	assert.Equal(t, on+1, testutil.ToFloat64(ToggleOperations.WithLabelValues("post_like", "on")))
	assert.Equal(t, off+1, testutil.ToFloat64(ToggleOperations.WithLabelValues("post_like", "off")))
}
