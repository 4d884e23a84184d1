package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogpilot/scheduler"
)

func newTriggerRouter(t *testing.T, run func(ctx context.Context) error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sched := scheduler.New()
	require.NoError(t, sched.Register("topic_generation", "Weekly topic generation", "0 9 * * 1", run))

	r := gin.New()
	r.POST("/jobs/generate-topics", TriggerJobHandler(sched, "topic_generation"))
	r.POST("/scheduler/run/:job_id", TriggerJobHandler(sched, ""))
	return r
}

func TestTriggerJobHandlerAccepted(t *testing.T) {
	done := make(chan struct{})
	r := newTriggerRouter(t, func(ctx context.Context) error {
		close(done)
		return nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/generate-topics", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestTriggerJobHandlerUnknownJob(t *testing.T) {
	r := newTriggerRouter(t, func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scheduler/run/nope", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerJobHandlerConflictWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := newTriggerRouter(t, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	defer close(release)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/generate-topics", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scheduler/run/topic_generation", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
