package middleware

import "net/http"

// WriteError writes a generic plain-text error. Details stay in the logs.
func WriteError(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}
