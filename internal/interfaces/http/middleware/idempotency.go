package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/interfaces/http/response"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is how long a key stays claimed while its request runs
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a successful response is replayed
	RetentionDuration = 24 * time.Hour

	idempotencyProcessing = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
	redisIsNil = redis.IsNil
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// callerScope names who owns an idempotency key. Authenticated callers are scoped by user id.
// Anonymous callers share no namespace: their scope is a digest of client IP and request body,
// so a replay only ever returns a response to the submission that produced it.
func callerScope(c *gin.Context) (string, error) {
	if userID, ok := GetUserID(c); ok && userID != uuid.Nil {
		return userID.String(), nil
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	h := sha256.New()
	h.Write([]byte(c.ClientIP()))
	h.Write([]byte{0})
	h.Write(body)
	return "anon:" + hex.EncodeToString(h.Sum(nil)), nil
}

// IdempotencyMiddleware replays the first successful response for a repeated Idempotency-Key.
// Keys are scoped to the caller and route. Redis failures let the request through.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		scope, err := callerScope(c)
		if err != nil {
			response.Abort(c, domainerrors.BadRequest(domainerrors.KeyBadRequest, "unreadable request body"))
			return
		}
		storageKey := fmt.Sprintf("idempotency:%s:%s:%s:%s", scope, c.Request.Method, c.FullPath(), key)

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == idempotencyProcessing:
			response.Abort(c, domainerrors.NewAppError(http.StatusConflict, domainerrors.KeyRequestInProgress, "request in progress", domainerrors.ErrAlreadyExists))
			return
		case err == nil:
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr == nil {
				c.Header("X-Idempotency-Hit", "true")
				c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
				c.Abort()
				return
			}
			logger.Warn(ctx, "Discarding unreadable idempotency entry", zap.String("key", storageKey))
		case !redisIsNil(err):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		claimed, err := redisSetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil || !claimed {
			response.Abort(c, domainerrors.NewAppError(http.StatusConflict, domainerrors.KeyRequestInProgress, "request in progress", domainerrors.ErrAlreadyExists))
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// let the client retry
			_ = redisDel(ctx, storageKey)
			return
		}
		payload, _ := json.Marshal(storedResponse{Status: status, Body: w.body.String()})
		if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
		}
	}
}
