package middleware

import "net/http"

const methodOverrideHeader = "X-HTTP-Method-Override"

// MethodOverrideMiddleware lets clients that can only send POST reach the
// PUT and DELETE routes through the X-HTTP-Method-Override header.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.Header.Get(methodOverrideHeader)
			if method == http.MethodPut || method == http.MethodDelete {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}
