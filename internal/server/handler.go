package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rudransh61/Bhandar/internal/log"
	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

// DefaultRequestTimeout bounds every Handler operation unless overridden.
const DefaultRequestTimeout = 5 * time.Second

// Handler validates requests, runs them against the store and translates
// the outcome. It is shared by the form endpoints and the RPC service.
type Handler struct {
	store   *bhandar.Store
	ttl     *bhandar.TTLParser
	timeout time.Duration
	metrics *Metrics
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTTLParser sets the parser used for raw TTL strings.
func WithTTLParser(p *bhandar.TTLParser) HandlerOption {
	return func(h *Handler) {
		if p != nil {
			h.ttl = p
		}
	}
}

// WithRequestTimeout sets the per-request deadline.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithMetrics records every operation in m.
func WithMetrics(m *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler returns a Handler for store that accepts ttls in seconds by
// default.
func NewHandler(store *bhandar.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:   store,
		ttl:     bhandar.MustTTLParser(bhandar.DefaultTTLUnits...),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Response is a plain text reply.
type Response struct {
	Status int
	Body   string
}

// Write sends r as a text/plain reply.
func (r Response) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.Status)
	_, _ = w.Write([]byte(r.Body))
}

func errorResponse(err error) Response {
	status, msg := httpStatus(err)
	return Response{Status: status, Body: msg + "\n"}
}

// do runs fn under the request deadline, turns panics into ErrInternal and
// records the outcome.
func (h *Handler) do(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx).Str("op", op).Interface("panic", p).Msg("server: recovered from panic")
			err = ErrInternal
		}
		if r := result(err); r == resultError {
			log.Error(ctx).Err(err).Str("op", op).Msg("server: request failed")
		}
		h.metrics.observe(op, result(err), time.Since(start))
	}()

	return fn(ctx)
}

// checkDeadline is called right before the store is touched. Past this
// point every operation runs to completion.
func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return nil
}

// Set validates the raw input and stores value under key.
func (h *Handler) Set(ctx context.Context, key string, value []byte, rawTTL string) error {
	return h.do(ctx, "set", func(ctx context.Context) error {
		if err := h.store.ValidateKey(key); err != nil {
			return err
		}
		if err := h.store.ValidateValue(len(value)); err != nil {
			return err
		}
		ttl, err := h.ttl.Parse(rawTTL)
		if err != nil {
			return err
		}
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		return h.store.Set(key, value, ttl)
	})
}

// Get returns the live value for key and its expiration. Missing and expired
// keys both yield bhandar.ErrNotFound.
func (h *Handler) Get(ctx context.Context, key string) (value []byte, expiresAt time.Time, err error) {
	err = h.do(ctx, "get", func(ctx context.Context) error {
		if err := h.store.ValidateKey(key); err != nil {
			return err
		}
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		var status bhandar.Status
		value, expiresAt, status = h.store.Lookup(key)
		if status != bhandar.Found {
			return bhandar.ErrNotFound
		}
		return nil
	})
	return value, expiresAt, err
}

// TTL returns how long key has left to live.
func (h *Handler) TTL(ctx context.Context, key string) (remaining time.Duration, err error) {
	err = h.do(ctx, "ttl", func(ctx context.Context) error {
		if err := h.store.ValidateKey(key); err != nil {
			return err
		}
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		var status bhandar.Status
		remaining, status = h.store.TTL(key)
		if status != bhandar.Found {
			return bhandar.ErrNotFound
		}
		return nil
	})
	return remaining, err
}

// Delete removes key. Deleting a missing key yields bhandar.ErrNotFound.
func (h *Handler) Delete(ctx context.Context, key string) error {
	return h.do(ctx, "delete", func(ctx context.Context) error {
		if err := h.store.ValidateKey(key); err != nil {
			return err
		}
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		if !h.store.Delete(key) {
			return bhandar.ErrNotFound
		}
		return nil
	})
}

// Entries lists the live entries.
func (h *Handler) Entries(ctx context.Context) (ents []bhandar.EntryInfo, err error) {
	err = h.do(ctx, "list", func(ctx context.Context) error {
		if err := checkDeadline(ctx); err != nil {
			return err
		}
		ents = h.store.Entries()
		return nil
	})
	return ents, err
}

// HandleSet stores rawValue under rawKey and acknowledges the write.
func (h *Handler) HandleSet(ctx context.Context, rawKey, rawValue, rawTTL string) Response {
	if err := h.Set(ctx, rawKey, []byte(rawValue), rawTTL); err != nil {
		return errorResponse(err)
	}
	return Response{Status: http.StatusOK, Body: fmt.Sprintf("OK set key=%q ttl=%s\n", rawKey, rawTTL)}
}

// HandleGet replies with the raw value. Callers cannot tell a key that was
// never set from one that expired.
func (h *Handler) HandleGet(ctx context.Context, rawKey string) Response {
	value, _, err := h.Get(ctx, rawKey)
	if err != nil {
		return errorResponse(err)
	}
	return Response{Status: http.StatusOK, Body: string(value)}
}

// HandleTTL replies with the whole seconds left before rawKey expires.
func (h *Handler) HandleTTL(ctx context.Context, rawKey string) Response {
	remaining, err := h.TTL(ctx, rawKey)
	if err != nil {
		return errorResponse(err)
	}
	return Response{Status: http.StatusOK, Body: formatRemaining(remaining) + "\n"}
}

// HandleDelete removes rawKey.
func (h *Handler) HandleDelete(ctx context.Context, rawKey string) Response {
	if err := h.Delete(ctx, rawKey); err != nil {
		return errorResponse(err)
	}
	return Response{Status: http.StatusOK, Body: "deleted\n"}
}

// HandleList replies with the live keys, one per line.
func (h *Handler) HandleList(ctx context.Context) Response {
	ents, err := h.Entries(ctx)
	if err != nil {
		return errorResponse(err)
	}
	var b strings.Builder
	for _, e := range ents {
		b.WriteString(e.Key)
		b.WriteByte('\n')
	}
	return Response{Status: http.StatusOK, Body: b.String()}
}

// formatRemaining renders whole seconds, rounding up so a live key never
// reports 0s.
func formatRemaining(d time.Duration) string {
	secs := (d + time.Second - 1) / time.Second
	return fmt.Sprintf("%ds", secs)
}
