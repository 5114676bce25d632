package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aquaclub/swimtrack/internal/telemetry/tracing"
	"github.com/aquaclub/swimtrack/internal/trainlog"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	pushUserAgent = "SwimTrack/1.0"

	oneMinute              = 60
	leaderboardCacheExpire = oneMinute * 5

	// result cap applied when the caller does not set one
	defaultFetchLimit = 400
)

// SyncError marks a remote roundtrip failure. It is never fatal for the
// local collection: callers keep their data and surface the error.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// LeaderboardEntry is one row of the club-wide standings kept remotely.
type LeaderboardEntry struct {
	AthleteName    string  `json:"athleteName"`
	DistanceTotal  int     `json:"distanceTotal"`
	PerformanceAvg float64 `json:"performanceAvg"`
	EngagementAvg  float64 `json:"engagementAvg"`
	SessionsCount  int     `json:"sessionsCount"`
}

// Client talks to the club spreadsheet endpoint. Pushes go out as a
// plain-text json body because the endpoint rejects preflighted
// content types, and the ack is a text body starting with "OK".
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	cache      *freecache.Cache
}

func NewClient(endpoint, token string, httpClient *http.Client) *Client {
	megabyte := 1024 * 1024
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: httpClient,
		cache:      freecache.NewCache(1 * megabyte),
	}
}

type pushPayload struct {
	trainlog.SessionRecord
	UserAgent string `json:"userAgent"`
}

// Push uploads one record. A transport failure or a non-"OK" ack comes
// back as a SyncError; the caller's local copy is already saved and
// stays saved either way.
func (c *Client) Push(ctx context.Context, rec trainlog.SessionRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncClient.push")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload := pushPayload{
		SessionRecord: rec,
		UserAgent:     pushUserAgent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &SyncError{Op: "push marshal", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &SyncError{Op: "push request", Err: err}
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("User-Agent", pushUserAgent)
	if c.token != "" {
		req.Header.Set("X-SWIM-TOKEN", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SyncError{Op: "push", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SyncError{Op: "push read ack", Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &SyncError{Op: "push", Err: fmt.Errorf("status %d: %s", resp.StatusCode, respBytes)}
	}
	if !strings.HasPrefix(string(respBytes), "OK") {
		return &SyncError{Op: "push", Err: fmt.Errorf("unexpected ack: %q", respBytes)}
	}
	return nil
}

type fetchEnvelope struct {
	Ok       bool              `json:"ok"`
	Sessions []json.RawMessage `json:"sessions"`
}

// Fetch downloads the athlete's records from the remote, capped at
// limit (non-positive means the default cap). Items that fail to
// decode or validate are skipped one by one, a single malformed
// spreadsheet row must not poison the whole download.
//
// An empty athlete name is a local error, the remote is not called.
func (c *Client) Fetch(ctx context.Context, athleteName string, limit int) (_ []trainlog.SessionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncClient.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	athleteName = strings.TrimSpace(athleteName)
	if athleteName == "" {
		return nil, trainlog.ErrNoAthleteName
	}
	if limit <= 0 {
		limit = defaultFetchLimit
	}

	fetchUrl := fmt.Sprintf(
		"%s?action=get&athleteName=%s&limit=%d",
		c.endpoint, url.QueryEscape(athleteName), limit,
	)
	envelope, err := c.getEnvelope(ctx, fetchUrl, "fetch")
	if err != nil {
		return nil, err
	}

	sessions := make([]trainlog.SessionRecord, 0, len(envelope.Sessions))
	for i, raw := range envelope.Sessions {
		var rec trainlog.SessionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warnf("fetch: skipping malformed item %d: %s", i, err)
			continue
		}
		if err := rec.Validate(); err != nil {
			log.Warnf("fetch: skipping invalid item %d: %s", i, err)
			continue
		}
		sessions = append(sessions, rec)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("fetched %d sessions for %s", len(sessions), athleteName))
	return sessions, nil
}

// Leaderboard downloads the club standings over the last `days` days.
// Responses are cached per window for a few minutes, the standings
// move slowly and the endpoint is rate limited upstream.
func (c *Client) Leaderboard(ctx context.Context, days int) (_ []LeaderboardEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncClient.leaderboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(fmt.Sprintf("leaderboard|%d", days))
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var entries []LeaderboardEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			log.Tracef("leaderboard served from cache")
			return entries, nil
		}
		log.Errorf("unmarshal cached leaderboard: %s", err)
	}

	hallUrl := fmt.Sprintf("%s?action=hall&days=%d", c.endpoint, days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hallUrl, nil)
	if err != nil {
		return nil, &SyncError{Op: "leaderboard request", Err: err}
	}
	if c.token != "" {
		req.Header.Set("X-SWIM-TOKEN", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SyncError{Op: "leaderboard", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SyncError{Op: "leaderboard read", Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &SyncError{Op: "leaderboard", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var envelope struct {
		Ok       bool               `json:"ok"`
		Athletes []LeaderboardEntry `json:"athletes"`
	}
	if err := json.Unmarshal(respBytes, &envelope); err != nil {
		return nil, &SyncError{Op: "leaderboard unmarshal", Err: err}
	}
	if !envelope.Ok {
		return nil, &SyncError{Op: "leaderboard", Err: errors.New("remote reported not ok")}
	}

	if entriesBytes, err := json.Marshal(envelope.Athletes); err == nil {
		if err := c.cache.Set(cacheKey, entriesBytes, leaderboardCacheExpire); err != nil {
			log.Errorf("set leaderboard cache: %s", err)
		}
	}

	return envelope.Athletes, nil
}

func (c *Client) getEnvelope(ctx context.Context, reqUrl, op string) (*fetchEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, &SyncError{Op: op + " request", Err: err}
	}
	if c.token != "" {
		req.Header.Set("X-SWIM-TOKEN", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SyncError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SyncError{Op: op + " read", Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &SyncError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, respBytes)}
	}

	envelope := &fetchEnvelope{}
	if err := json.Unmarshal(respBytes, envelope); err != nil {
		return nil, &SyncError{Op: op + " unmarshal", Err: err}
	}
	if !envelope.Ok {
		return nil, &SyncError{Op: op, Err: errors.New("remote reported not ok")}
	}
	return envelope, nil
}
