package trainlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/aquaclub/swimtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	sessionsJsonFileName = "sessions.json"
	profileJsonFileName  = "profile.json"
)

var ErrStoreClosed = errors.New("store closed")

// StorageError marks a persistence failure. Callers treat it as
// non-fatal: a store that cannot be read behaves as an empty store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RetentionPolicy bounds the local collection. Zero values mean
// "use the default", not "keep nothing".
type RetentionPolicy struct {
	MaxAgeDays int
	MaxRecords int
}

const (
	DefaultMaxAgeDays = 365
	DefaultMaxRecords = 400
)

func (p RetentionPolicy) withDefaults() RetentionPolicy {
	if p.MaxAgeDays <= 0 {
		p.MaxAgeDays = DefaultMaxAgeDays
	}
	if p.MaxRecords <= 0 {
		p.MaxRecords = DefaultMaxRecords
	}
	return p
}

// Profile holds the athlete identity and display preferences kept
// alongside the sessions file.
type Profile struct {
	AthleteName  string `json:"athleteName"`
	KpiRangeDays int    `json:"kpiRangeDays"`
}

// LocalStore keeps the session collection in memory and mirrors every
// mutation to a json file under rootPath, the same way the original
// device kept it in browser storage. A file that cannot be read or
// parsed is treated as an empty collection, never as a fatal error.
type LocalStore struct {
	rootPath  string
	retention RetentionPolicy
	nowFunc   func() time.Time

	mutex    sync.RWMutex
	sessions []SessionRecord
	profile  Profile
}

func NewLocalStore(rootPath string, retention RetentionPolicy) (*LocalStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	s := &LocalStore{
		rootPath:  rootPath,
		retention: retention.withDefaults(),
		nowFunc:   time.Now,
	}
	s.sessions = s.readSessionsFile()
	s.profile = s.readProfileFile()
	s.sessions = applyRetention(sortSessions(s.sessions), s.retention, s.nowFunc())
	return s, nil
}

func (s *LocalStore) readSessionsFile() []SessionRecord {
	filePath := path.Join(s.rootPath, sessionsJsonFileName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("read sessions file %s: %s, starting empty", filePath, err)
		}
		return nil
	}
	var sessions []SessionRecord
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warnf("corrupt sessions file %s: %s, starting empty", filePath, err)
		return nil
	}
	valid := sessions[:0]
	for _, rec := range sessions {
		if err := rec.Validate(); err != nil {
			log.Warnf("skipping invalid stored session: %s", err)
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}

func (s *LocalStore) readProfileFile() Profile {
	filePath := path.Join(s.rootPath, profileJsonFileName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Profile{}
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warnf("corrupt profile file %s: %s, starting empty", filePath, err)
		return Profile{}
	}
	return p
}

func (s *LocalStore) saveSessions(ctx context.Context) error {
	_, span := tracing.GlobalTracer.Start(ctx, "localStore.save")
	defer span.End()
	span.SetAttributes(attribute.Int("sessions.count", len(s.sessions)))

	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return &StorageError{Op: "marshal", Err: err}
	}
	filePath := path.Join(s.rootPath, sessionsJsonFileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// Add validates and stores one record, then persists. Duplicates by
// identity are rejected silently (the record is already there).
func (s *LocalStore) Add(ctx context.Context, rec SessionRecord) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localStore.add")
	defer span.End()

	if err := rec.Validate(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	key := rec.IdentityKey()
	for _, existing := range s.sessions {
		if existing.IdentityKey() == key {
			return nil
		}
	}
	s.sessions = applyRetention(
		sortSessions(append(s.sessions, rec)),
		s.retention, s.nowFunc(),
	)
	return s.saveSessions(ctx)
}

// Replace swaps the whole collection, used after reconciliation with
// the remote. The input is sorted and retention-bounded here, callers
// don't need to pre-process.
func (s *LocalStore) Replace(ctx context.Context, sessions []SessionRecord) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localStore.replace")
	defer span.End()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions = applyRetention(sortSessions(sessions), s.retention, s.nowFunc())
	return s.saveSessions(ctx)
}

// Clear drops all sessions, local only. The remote copy is untouched.
func (s *LocalStore) Clear(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localStore.clear")
	defer span.End()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions = nil
	return s.saveSessions(ctx)
}

// All returns a copy of the collection in canonical order.
func (s *LocalStore) All(ctx context.Context) []SessionRecord {
	_, span := tracing.GlobalTracer.Start(ctx, "localStore.all")
	defer span.End()

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]SessionRecord, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *LocalStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

func (s *LocalStore) Profile(ctx context.Context) Profile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.profile
}

func (s *LocalStore) SetProfile(ctx context.Context, p Profile) error {
	_, span := tracing.GlobalTracer.Start(ctx, "localStore.setProfile")
	defer span.End()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.profile = p
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &StorageError{Op: "marshal", Err: err}
	}
	filePath := path.Join(s.rootPath, profileJsonFileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// sortSessions returns sessions in canonical order: newest day first,
// morning before evening within the day.
func sortSessions(sessions []SessionRecord) []SessionRecord {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Less(sessions[j])
	})
	return sessions
}

// applyRetention drops records older than the age bound, then trims the
// tail down to the record bound. Assumes canonical order, so the tail
// holds the oldest records.
func applyRetention(sessions []SessionRecord, p RetentionPolicy, now time.Time) []SessionRecord {
	cutoff := TruncateToDay(now).AddDate(0, 0, -p.MaxAgeDays)
	kept := sessions[:0]
	for _, rec := range sessions {
		if rec.SessionDate.Before(cutoff) {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) > p.MaxRecords {
		kept = kept[:p.MaxRecords]
	}
	return kept
}
