package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aquaclub/swimtrack/internal/auth"
	"github.com/aquaclub/swimtrack/internal/middleware"
	"github.com/aquaclub/swimtrack/internal/telemetry/tracing"
	"github.com/aquaclub/swimtrack/internal/trainlog"
	"github.com/aquaclub/swimtrack/internal/trainlog/sync"
	"github.com/aquaclub/swimtrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=coach_mocks_test.go -package=coach_test

// review windows default to the last month
const defaultWindowDays = 30

type clubRemote interface {
	Fetch(ctx context.Context, athleteName string, limit int) ([]trainlog.SessionRecord, error)
	Leaderboard(ctx context.Context, days int) ([]sync.LeaderboardEntry, error)
}

type AthleteTrendsResponse struct {
	AthleteName string                 `json:"athleteName"`
	Days        int                    `json:"days"`
	Sessions    int                    `json:"sessions"`
	TotalLoad   int                    `json:"totalLoad"`
	LoadSeries  []trainlog.SeriesPoint `json:"loadSeries"`
}

type LeaderboardResponse struct {
	Entries []sync.LeaderboardEntry `json:"entries"`
}

// Handler serves the coach-only review surface. Everything under
// /coach/ sits behind the auth middleware, login happens on /a/login.
type Handler struct {
	remote                      clubRemote
	authService                 *auth.Service
	coach                       *auth.Coach
	loginRateLimitAllowedPerMin int
}

func NewHandler(
	remote clubRemote,
	authService *auth.Service,
	coach *auth.Coach,
	loginRateLimitAllowedPerMin int,
) *Handler {
	return &Handler{
		remote:                      remote,
		authService:                 authService,
		coach:                       coach,
		loginRateLimitAllowedPerMin: loginRateLimitAllowedPerMin,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	authMiddleware *middleware.AuthMiddlewareHandler,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.HandleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.HandleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the /login and /logout endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", handler.loginRateLimitAllowedPerMin))

	coachSubrouter := mainRouter.PathPrefix("/coach").Subrouter()
	coachSubrouter.
		HandleFunc("/leaderboard", handler.HandleLeaderboard).
		Methods("GET", "OPTIONS").Name("leaderboard")
	coachSubrouter.
		HandleFunc("/athlete/{name}/trends", handler.HandleAthleteTrends).
		Methods("GET", "OPTIONS").Name("athlete-trends")

	coachSubrouter.Use(authMiddleware.AuthCheck())
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	if !pkg.CheckPasswordHash(loginReq.Password, handler.coach.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}
	if loginReq.Username != handler.coach.Username {
		log.Tracef("[username] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(r.Context(), time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new coach login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-SWIM-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(r.Context(), authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.leaderboard")
	defer span.End()

	days := defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := parsePositiveInt(daysStr)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	entries, err := handler.remote.Leaderboard(ctx, days)
	if err != nil {
		log.Errorf("get leaderboard: %s", err)
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}

	respJson, err := json.Marshal(LeaderboardResponse{Entries: entries})
	if err != nil {
		log.Errorf("marshal leaderboard response: %s", err)
		http.Error(w, "failed to render leaderboard", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// handleAthleteTrends pulls one athlete's remote records and computes
// their load trend, so the coach can review athletes that never synced
// to this device.
func (handler *Handler) HandleAthleteTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.athleteTrends")
	defer span.End()

	vars := mux.Vars(r)
	athleteName := vars["name"]
	span.SetAttributes(attribute.String("athlete.name", athleteName))

	days := defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := parsePositiveInt(daysStr)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	sessions, err := handler.remote.Fetch(ctx, athleteName, 0)
	if err != nil {
		log.Errorf("fetch sessions for athlete [%s]: %s", athleteName, err)
		http.Error(w, "athlete data unavailable", http.StatusBadGateway)
		return
	}

	windowed := trainlog.WindowFilter(sessions, days, time.Now())
	resp := AthleteTrendsResponse{
		AthleteName: athleteName,
		Days:        days,
		Sessions:    len(windowed),
		TotalLoad:   trainlog.TotalLoad(windowed),
		LoadSeries:  trainlog.DailyAverage(windowed, trainlog.FieldLoad),
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal athlete trends response: %s", err)
		http.Error(w, "failed to render trends", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive: %d", v)
	}
	return v, nil
}
