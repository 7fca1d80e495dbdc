package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/defendnet/backend/flagsrvc"
	"github.com/defendnet/backend/logger"
	"github.com/defendnet/backend/scoresrvc"
)

type HttpServer struct {
	flagSrvc  *flagsrvc.Srvc
	scoreSrvc *scoresrvc.Srvc
	router    *chi.Mux
}

func NewHttpServer(flagSrvc *flagsrvc.Srvc, scoreSrvc *scoresrvc.Srvc) *HttpServer {
	router := chi.NewRouter()

	httpLogger := httplog.NewLogger("defendnet", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(middleware.RequestID)
	router.Use(requestLoggerMiddleware)
	router.Use(httplog.RequestLogger(httpLogger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(callerMiddleware)

	server := &HttpServer{
		flagSrvc:  flagSrvc,
		scoreSrvc: scoreSrvc,
		router:    router,
	}

	server.routes()

	return server
}

func (s *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, s.router)
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

// requestLoggerMiddleware binds a request-scoped slog logger into the
// context so handlers and services log with the request id attached.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HttpServer) routes() {
	r := s.router
	r.Get("/api/flags", s.listFlags)
	r.Post("/api/flags", s.createFlag)
	r.Post("/api/flags/adjust-score", s.adjustScore)
	r.Post("/api/flags/submit", s.submitFlag)
	r.Get("/api/flags/solves", s.solvesMatrix)
	r.Get("/api/flags/totals", s.attackerTotals)
	r.Get("/api/scoreboard", s.scoreboard)
}
