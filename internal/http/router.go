package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sun1tar/tasklist-service/internal/middleware"
)

// NewRouter собирает маршруты API. authHandler и authMW равны nil
// в однопользовательском режиме: тогда задачи доступны без токена,
// а маршруты регистрации и логина не монтируются
func NewRouter(tasks *TaskHandler, auth *AuthHandler, authMW mux.MiddlewareFunc, staticDir string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	// Фронтенд раздаётся как есть, к контракту API отношения не имеет
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	if auth != nil {
		r.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
		r.HandleFunc("/login", auth.Login).Methods(http.MethodPost)

		users := r.PathPrefix("/users").Subrouter()
		users.Use(authMW)
		users.HandleFunc("/me", auth.Me).Methods(http.MethodGet)
	}

	t := r.PathPrefix("/tasks").Subrouter()
	if authMW != nil {
		t.Use(authMW)
	}
	t.HandleFunc("", tasks.CreateTask).Methods(http.MethodPost)
	t.HandleFunc("", tasks.ListTasks).Methods(http.MethodGet)
	// /tasks/stats объявлен до /tasks/{id}, плюс {id} ограничен числами
	t.HandleFunc("/stats", tasks.Stats).Methods(http.MethodGet)
	t.HandleFunc("/{id:[0-9]+}", tasks.GetTask).Methods(http.MethodGet)
	t.HandleFunc("/{id:[0-9]+}", tasks.UpdateTask).Methods(http.MethodPut)
	t.HandleFunc("/{id:[0-9]+}", tasks.DeleteTask).Methods(http.MethodDelete)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is running"})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
