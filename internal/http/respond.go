package http

import (
	"encoding/json"
	"net/http"
)

// writeJSON сериализует payload и выставляет статус ответа
func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError отвечает ошибкой в формате {"detail": "..."}
func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
