package misc

import (
	"net/http"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/middleware"
	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	versionInfo string
	authHandler *auth.Handler
}

func NewHandler(versionInfo string, authHandler *auth.Handler) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		authHandler: authHandler,
	}
}

type SetupRoutesParams struct {
	RateLimiter    middleware.RequestRateLimiter
	MetricsManager *metrics.Manager
	AllowedPerMin  int
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, params SetupRoutesParams) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	authSubrouter := mainRouter.PathPrefix("/auth").Subrouter()
	authSubrouter.
		HandleFunc("/signup", handler.authHandler.HandleSignUp).
		Methods("POST", "OPTIONS").Name("signup")
	authSubrouter.
		HandleFunc("/signin", handler.authHandler.HandleSignIn).
		Methods("POST", "OPTIONS").Name("signin")
	authSubrouter.
		HandleFunc("/signout", handler.authHandler.HandleSignOut).
		Methods("POST", "OPTIONS").Name("signout")
	authSubrouter.
		HandleFunc("/session", handler.authHandler.HandleSession).
		Methods("GET", "OPTIONS").Name("session")

	// rate limit the identity endpoints to slow down credential stuffing
	authSubrouter.Use(middleware.RateLimit(params.RateLimiter, "auth", params.AllowedPerMin, params.MetricsManager))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
