package server

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rudransh61/Bhandar/internal/log"
)

func unaryLogging() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(
			ctx context.Context,
			req connect.AnyRequest,
		) (connect.AnyResponse, error) {
			start := time.Now()

			res, err := next(ctx, req)
			evt := log.Ctx(ctx).Info()
			if err != nil {
				evt = log.Ctx(ctx).Warn().Str("code", connect.CodeOf(err).String())
			}

			evt.Str("procedure", req.Spec().Procedure).
				Str("peer", req.Peer().Addr).
				Dur("duration", time.Since(start)).
				Msg("rpc")

			return res, err
		}
	}
}

// accessLog attaches a request scoped logger to the context and logs one
// line per request once it has been served.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.WithContext(r.Context(), func(c zerolog.Context) zerolog.Context {
			return c.Str("request-id", middleware.GetReqID(r.Context()))
		})
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Ctx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http-request")
	})
}
