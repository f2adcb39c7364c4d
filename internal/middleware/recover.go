package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"cibn-digital-library/internal/response"
)

// Recover converts panics into a 500 JSON envelope. The error and stack
// are included in the body only when development is true.
func Recover(development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := debug.Stack()
					slog.Error("panic recovered", "error", err, "stack", string(stack))

					body := response.Envelope{
						"success": false,
						"message": "Internal server error",
					}
					if development {
						body["error"] = toString(err)
						body["stack"] = string(stack)
					}
					response.JSON(w, http.StatusInternalServerError, body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown error"
}
