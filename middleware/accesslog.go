package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/struffoli/facecard/pkg/logging"
)

// AccessLog writes one structured line per request. 5xx responses log at
// error level, 4xx at warn, everything else at debug.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := statusOf(ww)
		ev := logging.Debug()
		switch {
		case status >= http.StatusInternalServerError:
			ev = logging.Error()
		case status >= http.StatusBadRequest:
			ev = logging.Warn()
		}

		ev.Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("[http] request")
	})
}
