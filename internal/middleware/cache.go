package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/admincontrol/user-admin/internal/config"
)

// captureWriter captures the response body and status while forwarding
// them to the client, so a hit can be stored after the handler ran.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

// overLimit reports whether the response outgrew a positive capture
// limit. A non-positive limit means unlimited.
func (cw *captureWriter) overLimit() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 || int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else if remain > 0 {
			cw.buf.Write(b[:remain])
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().Method + ":" + c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache serves successful GET responses of the wrapped routes
// from Redis for the configured TTL. List consumers re-fetch after every
// mutation, so the cache trades at most one TTL of staleness for read
// traffic. Disabled config or a nil client makes it a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				ctype := echo.MIMEApplicationJSON
				if i := bytes.IndexByte(body, '\n'); i >= 0 {
					ctype = string(body[:i])
					body = body[i+1:]
				}
				return c.Blob(http.StatusOK, ctype, body)
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && !cw.overLimit() {
				ctype := strings.TrimSpace(c.Response().Header().Get(echo.HeaderContentType))
				payload := append([]byte(ctype+"\n"), cw.buf.Bytes()...)
				_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL()).Err()
			}
			return nil
		}
	}
}
