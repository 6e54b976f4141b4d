package handlers

import "net/http"

// PingHandler отвечает "ok" для проверки сервера
func PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
