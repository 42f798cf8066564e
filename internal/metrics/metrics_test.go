package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/profile", "200"))
	RecordHTTPRequest("/profile", 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/profile", "200")))

	unknown := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unknown", "404"))
	RecordHTTPRequest("", 404, time.Millisecond)
	assert.Equal(t, unknown+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("unknown", "404")))
}

func TestRecordProfileSync(t *testing.T) {
	ok := testutil.ToFloat64(profileSyncTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(profileSyncTotal.WithLabelValues("error"))

	RecordProfileSync(nil)
	RecordProfileSync(errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(profileSyncTotal.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(profileSyncTotal.WithLabelValues("error")))
}

func TestCounters(t *testing.T) {
	calc := testutil.ToFloat64(macroCalculationsTotal)
	RecordMacroCalculation()
	assert.Equal(t, calc+1, testutil.ToFloat64(macroCalculationsTotal))

	p := testutil.ToFloat64(purchasesTotal.WithLabelValues("succeeded"))
	RecordPurchase("succeeded")
	assert.Equal(t, p+1, testutil.ToFloat64(purchasesTotal.WithLabelValues("succeeded")))

	n := testutil.ToFloat64(notificationsPublishedTotal.WithLabelValues("receipt"))
	RecordNotification("receipt")
	assert.Equal(t, n+1, testutil.ToFloat64(notificationsPublishedTotal.WithLabelValues("receipt")))
}
