package handlers

import "net/http"

// GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	ok(w, "ok", nil)
}
