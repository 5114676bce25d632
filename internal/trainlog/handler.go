package trainlog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/aquaclub/swimtrack/internal/telemetry/metrics"
	"github.com/aquaclub/swimtrack/internal/telemetry/tracing"
	"github.com/aquaclub/swimtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=trainlog_test

type sessionsStore interface {
	Add(ctx context.Context, rec SessionRecord) error
	Replace(ctx context.Context, sessions []SessionRecord) error
	Clear(ctx context.Context) error
	All(ctx context.Context) []SessionRecord
	Count() int
	Profile(ctx context.Context) Profile
	SetProfile(ctx context.Context, p Profile) error
}

type remoteSync interface {
	Push(ctx context.Context, rec SessionRecord) error
	Fetch(ctx context.Context, athleteName string, limit int) ([]SessionRecord, error)
}

type AddSessionResponse struct {
	Added  bool `json:"added"`
	Pushed bool `json:"pushed"`
	Total  int  `json:"total"`
}

type ListResponse struct {
	Sessions []SessionRecord `json:"sessions"`
	Total    int             `json:"total"`
}

type FetchResponse struct {
	Fetched int `json:"fetched"`
	Total   int `json:"total"`
}

type KpiResponse struct {
	Days           int      `json:"days"`
	Sessions       int      `json:"sessions"`
	TotalDistance  int      `json:"totalDistance"`
	TotalLoad      int      `json:"totalLoad"`
	AvgDuration    *float64 `json:"avgDuration"`
	AvgRPE         *float64 `json:"avgRpe"`
	AvgPerformance *float64 `json:"avgPerformance"`
	AvgEngagement  *float64 `json:"avgEngagement"`
	AvgFatigue     *float64 `json:"avgFatigue"`
}

type SeriesResponse struct {
	Field  MetricField   `json:"field"`
	Days   int           `json:"days"`
	Points []SeriesPoint `json:"points"`
}

type Handler struct {
	store   sessionsStore
	sync    remoteSync
	metrics *metrics.Manager
}

func NewHandler(store sessionsStore, sync remoteSync, metrics *metrics.Manager) *Handler {
	return &Handler{
		store:   store,
		sync:    sync,
		metrics: metrics,
	}
}

// HandleAdd stores a new session locally, then pushes it to the remote
// best effort. A push failure never rolls the local write back, the
// response just reports pushed=false.
func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var rec SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Tracef("add session, unmarshal json params: %s", err)
		handler.metrics.CounterSessionsRejected.Inc()
		http.Error(w, "add session failed", http.StatusBadRequest)
		return
	}
	if rec.TimeSlot == "" {
		rec.TimeSlot = SlotUnspecified
	}
	// a stored athlete name wins over whatever the submission carries
	if profileName := handler.store.Profile(ctx).AthleteName; profileName != "" {
		rec.AthleteName = profileName
	}

	if err := handler.store.Add(ctx, rec); err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			handler.metrics.CounterSessionsRejected.Inc()
			http.Error(w, valErr.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to store session for [%s] on [%s]: %s", rec.AthleteName, rec.SessionDate.Key(), err)
		http.Error(w, "error, failed to store session", http.StatusInternalServerError)
		return
	}
	handler.metrics.CounterSessionsAdded.Inc()
	handler.metrics.GaugeStoredSessions.Set(float64(handler.store.Count()))

	pushed := true
	pushStart := time.Now()
	err := handler.sync.Push(ctx, rec)
	handler.metrics.HistSyncRoundtrip.Observe(time.Since(pushStart).Seconds())
	if err != nil {
		// local write stays, remote catches up on the next fetch
		log.Errorf("push session for [%s]: %s", rec.AthleteName, err)
		handler.metrics.CounterSyncPushFailed.Inc()
		pushed = false
	} else {
		handler.metrics.CounterSyncPushOK.Inc()
	}

	resp := AddSessionResponse{
		Added:  true,
		Pushed: pushed,
		Total:  handler.store.Count(),
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal add session response: %s", err)
		http.Error(w, "added, but failed to render response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// HandleList returns the stored sessions in canonical order, optionally
// capped via the limit path variable.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	sessions := handler.store.All(ctx)
	total := len(sessions)

	vars := mux.Vars(r)
	if limitStr := vars["limit"]; limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if limit < len(sessions) {
			sessions = sessions[:limit]
		}
	}

	resp := ListResponse{
		Sessions: sessions,
		Total:    total,
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal sessions list response: %s", err)
		http.Error(w, "failed to render sessions", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// HandleFetch pulls the athlete's records from the remote, merges them
// into the local collection and persists the merged set. On a remote
// failure, the local collection is left exactly as it was.
func (handler *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.fetch")
	defer span.End()

	athleteName := handler.store.Profile(ctx).AthleteName
	if name := r.URL.Query().Get("athlete"); name != "" {
		athleteName = name
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = l
	}

	handler.metrics.CounterSyncFetches.Inc()
	fetchStart := time.Now()
	fetched, err := handler.sync.Fetch(ctx, athleteName, limit)
	handler.metrics.HistSyncRoundtrip.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		if errors.Is(err, ErrNoAthleteName) {
			http.Error(w, "athlete name not set", http.StatusBadRequest)
			return
		}
		log.Errorf("fetch sessions for [%s]: %s", athleteName, err)
		http.Error(w, "remote fetch failed", http.StatusBadGateway)
		return
	}

	merged := Merge(handler.store.All(ctx), fetched)
	if err := handler.store.Replace(ctx, merged); err != nil {
		log.Errorf("store merged sessions for [%s]: %s", athleteName, err)
		http.Error(w, "failed to store merged sessions", http.StatusInternalServerError)
		return
	}
	handler.metrics.CounterMergedRecords.Add(float64(len(fetched)))
	handler.metrics.GaugeStoredSessions.Set(float64(handler.store.Count()))

	resp := FetchResponse{
		Fetched: len(fetched),
		Total:   handler.store.Count(),
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal fetch response: %s", err)
		http.Error(w, "merged, but failed to render response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// HandleClear wipes the local collection. The remote copy stays.
func (handler *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.clear")
	defer span.End()

	if err := handler.store.Clear(ctx); err != nil {
		log.Errorf("clear sessions: %s", err)
		http.Error(w, "failed to clear sessions", http.StatusInternalServerError)
		return
	}
	handler.metrics.GaugeStoredSessions.Set(0)
	pkg.WriteTextResponseOK(w, "cleared")
}

// HandleKpi computes the headline numbers over the requested window.
// Averages over fields nobody rated come back as null, not zero.
func (handler *Handler) HandleKpi(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.kpi")
	defer span.End()

	days, err := daysParam(r, handler.store.Profile(ctx).KpiRangeDays)
	if err != nil {
		http.Error(w, "invalid days", http.StatusBadRequest)
		return
	}

	sessions := WindowFilter(handler.store.All(ctx), days, timeNow())
	resp := KpiResponse{
		Days:           days,
		Sessions:       len(sessions),
		TotalDistance:  Sum(sessions, FieldDistance),
		TotalLoad:      TotalLoad(sessions),
		AvgDuration:    avgOrNil(sessions, FieldDuration),
		AvgRPE:         avgOrNil(sessions, FieldRPE),
		AvgPerformance: avgOrNil(sessions, FieldPerformance),
		AvgEngagement:  avgOrNil(sessions, FieldEngagement),
		AvgFatigue:     avgOrNil(sessions, FieldFatigue),
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal kpi response: %s", err)
		http.Error(w, "failed to render kpi", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// HandleSeries returns the per-day averages of one metric field,
// ascending by date.
func (handler *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.series")
	defer span.End()

	vars := mux.Vars(r)
	field, err := ParseMetricField(vars["field"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	days, err := daysParam(r, handler.store.Profile(ctx).KpiRangeDays)
	if err != nil {
		http.Error(w, "invalid days", http.StatusBadRequest)
		return
	}

	sessions := WindowFilter(handler.store.All(ctx), days, timeNow())
	resp := SeriesResponse{
		Field:  field,
		Days:   days,
		Points: DailyAverage(sessions, field),
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal series response: %s", err)
		http.Error(w, "failed to render series", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

// HandleExport streams the collection as csv or json.
func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.export")
	defer span.End()

	vars := mux.Vars(r)
	format := vars["format"]
	sessions := handler.store.All(ctx)
	handler.metrics.CounterExports.Inc()

	switch format {
	case "csv":
		w.Header().Set("Content-Type", pkg.ContentType.CSV)
		w.Header().Set("Content-Disposition", `attachment; filename="swim-sessions.csv"`)
		if err := WriteCSV(w, sessions); err != nil {
			log.Errorf("export csv: %s", err)
		}
	case "json":
		w.Header().Set("Content-Type", pkg.ContentType.JSON)
		w.Header().Set("Content-Disposition", `attachment; filename="swim-sessions.json"`)
		if err := WriteJSON(w, sessions); err != nil {
			log.Errorf("export json: %s", err)
		}
	default:
		http.Error(w, "unknown export format", http.StatusBadRequest)
	}
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	respJson, err := json.Marshal(handler.store.Profile(ctx))
	if err != nil {
		log.Errorf("marshal profile response: %s", err)
		http.Error(w, "failed to render profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) HandleSetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.set")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "set profile failed", http.StatusBadRequest)
		return
	}
	if p.KpiRangeDays < 0 {
		http.Error(w, "kpi range days must be >= 0", http.StatusBadRequest)
		return
	}

	if err := handler.store.SetProfile(ctx, p); err != nil {
		log.Errorf("set profile: %s", err)
		http.Error(w, "failed to store profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "updated")
}

func daysParam(r *http.Request, fallback int) (int, error) {
	daysStr := r.URL.Query().Get("days")
	if daysStr == "" {
		if fallback > 0 {
			return fallback, nil
		}
		return 30, nil
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 0 {
		return 0, errors.New("invalid days")
	}
	return days, nil
}

func avgOrNil(sessions []SessionRecord, field MetricField) *float64 {
	avg, ok := Average(sessions, field)
	if !ok {
		return nil
	}
	return &avg
}
