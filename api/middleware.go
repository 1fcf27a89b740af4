package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/fastboat/internal/cache"
	"github.com/Domenick1991/fastboat/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	ctxRequestID         = "request_id"
)

// IdempotencyStore remembers responses of state-changing requests.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (cache.State, *cache.StoredResponse, error)
	Save(ctx context.Context, key string, resp cache.StoredResponse) error
	Release(ctx context.Context, key string) error
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

func AccessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Idempotency replays the stored response when a client repeats a request
// with the same Idempotency-Key. Requests without the header pass through,
// as do all requests when the store is unavailable.
func Idempotency(store IdempotencyStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(headerIdempotencyKey)
		if store == nil || header == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.Method + ":" + c.Request.URL.Path + ":" + header
		state, stored, err := store.Claim(ctx, key)
		if err != nil {
			log.WithError(err).WithField("request_id", requestID(c)).Warn("idempotency store unavailable")
			c.Next()
			return
		}

		switch state {
		case cache.Completed:
			c.Header(headerReplayed, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		case cache.InProgress:
			c.AbortWithStatusJSON(http.StatusConflict, errorResponse{
				Error:     "A request with this Idempotency-Key is already in progress.",
				RequestID: requestID(c),
			})
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		ctx = context.WithoutCancel(ctx)
		if rec.Status() >= http.StatusInternalServerError {
			err = store.Release(ctx, key)
		} else {
			err = store.Save(ctx, key, cache.StoredResponse{
				Status:      rec.Status(),
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
		}
		if err != nil {
			log.WithError(err).WithField("request_id", requestID(c)).Warn("failed to record idempotent response")
		}
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
