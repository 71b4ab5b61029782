package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"

	// Long enough to cover mobile clients retrying a create or accept
	// after a dropped connection.
	idempotencyTTL = time.Hour
)

// storedResponse is the replayable response for an idempotent request.
type storedResponse struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// bodyCapturingWriter wraps gin.ResponseWriter to capture the response body.
type bodyCapturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for repeated mutating
// requests carrying the same Idempotency-Key. A retried create must not
// spawn a second ride, and a retried accept must see its original outcome.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c.Request.Method, c.Request.URL.Path, key)

		stored, err := getStoredResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			// Redis unavailable: fall through rather than block the request.
			c.Next()
			return
		}

		if stored != nil {
			if stored.ContentType != "" {
				c.Header("Content-Type", stored.ContentType)
			}
			c.Data(stored.StatusCode, "application/json", stored.Body)
			c.Abort()
			return
		}

		w := &bodyCapturingWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Replay successes and conflicts; transient failures stay retryable.
		status := c.Writer.Status()
		if (status >= 200 && status < 300) || status == http.StatusConflict {
			response := storedResponse{
				StatusCode:  status,
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			}
			_ = setStoredResponse(ctx, redisClient, cacheKey, &response, idempotencyTTL)
		}
	}
}

// idempotencyCacheKey scopes the stored response to the endpoint. The same
// Idempotency-Key on a different method or path must not replay another
// endpoint's response.
func idempotencyCacheKey(method, path, key string) string {
	return "idempotency:" + method + ":" + path + ":" + key
}

// getStoredResponse retrieves a stored response from Redis.
func getStoredResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

// setStoredResponse stores a response in Redis.
func setStoredResponse(ctx context.Context, client *redis.Client, key string, response *storedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}
