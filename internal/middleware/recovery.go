package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"timesheet-backend/pkg/utils"
)

// PanicRecovery turns a panicking handler into a 500. It sits outside the
// router, so the request id is read back from the response header.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[HTTP] PANIC RECOVERED (%s %s, request %s): %v\n%s",
					r.Method, r.URL.Path, w.Header().Get(RequestIDHeader), err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
