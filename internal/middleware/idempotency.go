package middleware

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/go-petr/dream-bank/pkg/tokenpkg"
	"github.com/go-petr/dream-bank/pkg/web"
)

const (
	// IdempotencyKeyHeader is the client supplied key of a retryable request.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayedHeader marks a response served from the idempotency store.
	IdempotentReplayedHeader = "Idempotent-Replayed"

	idempotencyPending = "pending:"
)

var (
	// ErrRequestInProgress indicates that a request with the same idempotency key is being served.
	ErrRequestInProgress = errors.New("request with the same idempotency key is in progress")
	// ErrIdempotencyKeyReused indicates that the key was already used for a different request.
	ErrIdempotencyKeyReused = errors.New("idempotency key was used for a different request")
)

type storedResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// fingerprint digests method, path and body, leaving the body readable for the handler.
func fingerprint(gctx *gin.Context) (string, error) {
	var body []byte

	if gctx.Request.Body != nil {
		var err error

		body, err = io.ReadAll(gctx.Request.Body)
		if err != nil {
			return "", err
		}

		gctx.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(h, "%s %s\n", gctx.Request.Method, gctx.Request.URL.Path)
	h.Write(body)

	return hex.EncodeToString(h.Sum(nil)), nil
}

func idempotencyKey(gctx *gin.Context, key string) string {
	if payload, ok := gctx.Get(AuthPayloadKey); ok {
		if p, ok := payload.(*tokenpkg.Payload); ok {
			return fmt.Sprintf("idempotency:%d:%s", p.OwnerID, key)
		}
	}

	return "idempotency:-:" + key
}

// Idempotency serves a repeated request carrying the same Idempotency-Key with
// the stored response of the first one. A duplicate arriving while the first is
// still served is rejected with 409, a key reused with another method, path or
// body with 422. Server errors are not stored so the client may retry them.
func Idempotency(rdb redis.UniversalClient, ttl time.Duration) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		header := gctx.GetHeader(IdempotencyKeyHeader)
		if header == "" {
			gctx.Next()
			return
		}

		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)
		key := idempotencyKey(gctx, header)

		fp, err := fingerprint(gctx)
		if err != nil {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusBadRequest, web.Error(err))

			return
		}

		acquired, err := rdb.SetNX(ctx, key, idempotencyPending+fp, ttl).Result()
		if err != nil {
			l.Error().Err(err).Msgf("idempotency store unavailable for %s", key)
			gctx.Next()

			return
		}

		if !acquired {
			replay(gctx, rdb, key, fp)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: gctx.Writer}
		gctx.Writer = recorder

		gctx.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := rdb.Del(ctx, key).Err(); err != nil {
				l.Error().Err(err).Msgf("release %s", key)
			}

			return
		}

		data, err := json.Marshal(storedResponse{
			Fingerprint: fp,
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err != nil {
			l.Error().Err(err).Send()
			return
		}

		if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			l.Error().Err(err).Msgf("store %s", key)
		}
	}
}

func replay(gctx *gin.Context, rdb redis.UniversalClient, key, fp string) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	value, err := rdb.Get(ctx, key).Result()
	if err != nil {
		l.Info().Err(err).Msgf("duplicate request %s", key)
		gctx.AbortWithStatusJSON(http.StatusConflict, web.Error(ErrRequestInProgress))

		return
	}

	if pending, ok := strings.CutPrefix(value, idempotencyPending); ok {
		if pending != fp {
			l.Info().Msgf("key %s reused while in progress", key)
			gctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, web.Error(ErrIdempotencyKeyReused))

			return
		}

		l.Info().Msgf("duplicate request %s", key)
		gctx.AbortWithStatusJSON(http.StatusConflict, web.Error(ErrRequestInProgress))

		return
	}

	var res storedResponse
	if err := json.Unmarshal([]byte(value), &res); err != nil {
		l.Error().Err(err).Msgf("corrupted idempotency record %s", key)
		gctx.AbortWithStatusJSON(http.StatusConflict, web.Error(ErrRequestInProgress))

		return
	}

	if res.Fingerprint != fp {
		l.Info().Msgf("key %s reused for a different request", key)
		gctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, web.Error(ErrIdempotencyKeyReused))

		return
	}

	gctx.Header(IdempotentReplayedHeader, "true")
	gctx.Data(res.Status, res.ContentType, res.Body)
	gctx.Abort()
}
