package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"surveybuilder/internal/config"
	"surveybuilder/internal/service"
	"surveybuilder/internal/transport/rest/handler"
	"surveybuilder/internal/transport/rest/middleware"
	"surveybuilder/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	EditorService *service.EditorService
	AuthService   *service.AuthService
	WSHub         *ws.Hub
	Config        *config.Config
	Logger        *zap.Logger
}

// NewRouter creates the router with the HTML editor, the JSON API and the websocket endpoint
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize handlers
	editorHandler := handler.NewEditorHandler(c.EditorService, c.AuthService, c.Config.PublicURL, logger)
	pageHandler := handler.NewPageHandler(c.EditorService, c.AuthService, c.Config.IsProduction(), logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.Config.CORS))
	r.Use(middleware.RequestLogger(logger))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// HTML editor
	r.HandleFunc("/", pageHandler.New).Methods("GET")
	pages := r.PathPrefix("/editor/{id}").Subrouter()
	pages.Use(authMW.RequireEditor)
	pages.HandleFunc("", pageHandler.Show).Methods("GET")
	pages.HandleFunc("", pageHandler.Post).Methods("POST")
	pages.HandleFunc("/questions", pageHandler.Questions).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/editors", editorHandler.Create).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/editors/{id}", wsHandler.EditorWS).Methods("GET")

	// Editor routes (require an editor token for {id})
	editorRoutes := v1.PathPrefix("/editors/{id}").Subrouter()
	editorRoutes.Use(authMW.RequireEditor)

	editorRoutes.HandleFunc("", editorHandler.Get).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("", editorHandler.Delete).Methods("DELETE", "OPTIONS")
	editorRoutes.HandleFunc("/draft", editorHandler.UpdateDraft).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/form", editorHandler.Form).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/submission", editorHandler.Submission).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/questions", editorHandler.AddQuestion).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}", editorHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}", editorHandler.RemoveQuestion).Methods("DELETE", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}/type", editorHandler.SetType).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}/limit", editorHandler.SetLimit).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}/options", editorHandler.AddOption).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}/options/{pos}", editorHandler.SetOption).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questions/{index}/options/{pos}", editorHandler.RemoveOption).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
