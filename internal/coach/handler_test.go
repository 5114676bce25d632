package coach_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aquaclub/swimtrack/internal/auth"
	"github.com/aquaclub/swimtrack/internal/coach"
	"github.com/aquaclub/swimtrack/internal/trainlog"
	trainlogsync "github.com/aquaclub/swimtrack/internal/trainlog/sync"
	"github.com/aquaclub/swimtrack/pkg"

	"github.com/go-redis/redismock/v8"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"),
	)
}

const (
	testCoachUsername = "coach-vera"
	testCoachPassword = "pool-deck-whistle"
	testToken         = "test-coach-token-123"
)

type coachTestSetup struct {
	remote    *MockclubRemote
	redisMock redismock.ClientMock
	handler   *coach.Handler
}

func newCoachTestSetup(t *testing.T) *coachTestSetup {
	t.Helper()
	ctrl := gomock.NewController(t)
	remoteMock := NewMockclubRemote(ctrl)

	db, redisMock := redismock.NewClientMock()
	authService := auth.NewService(auth.DefaultTTL, db)
	authService.RandStringFunc = func(int) (string, error) {
		return testToken, nil
	}

	passwordHash, err := pkg.HashPassword(testCoachPassword)
	require.NoError(t, err)

	return &coachTestSetup{
		remote:    remoteMock,
		redisMock: redisMock,
		handler: coach.NewHandler(
			remoteMock,
			authService,
			&auth.Coach{
				Username:     testCoachUsername,
				PasswordHash: passwordHash,
			},
			15,
		),
	}
}

func TestHandler_Login(t *testing.T) {
	setup := newCoachTestSetup(t)

	setup.redisMock.Regexp().
		ExpectSet("swimtrack-coach-session||"+testToken, `^\d+$`, 0).
		SetVal("OK")
	setup.redisMock.ExpectSAdd("swimtrack-coach-sessions", testToken).SetVal(1)

	body := fmt.Sprintf(`{"username":"%s","password":"%s"}`, testCoachUsername, testCoachPassword)
	req, err := http.NewRequest("POST", "/a/login", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	setup.handler.HandleLogin(respRec, req)
	require.Equal(t, http.StatusOK, respRec.Code)
	assert.Contains(t, respRec.Body.String(), testToken)
	assert.NoError(t, setup.redisMock.ExpectationsWereMet())
}

func TestHandler_Login_WrongPassword(t *testing.T) {
	setup := newCoachTestSetup(t)

	body := fmt.Sprintf(`{"username":"%s","password":"nope"}`, testCoachUsername)
	req, err := http.NewRequest("POST", "/a/login", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	setup.handler.HandleLogin(respRec, req)
	require.Equal(t, http.StatusBadRequest, respRec.Code)
	assert.Contains(t, respRec.Body.String(), "wrong credentials")
}

func TestHandler_Login_WrongUsername(t *testing.T) {
	setup := newCoachTestSetup(t)

	body := fmt.Sprintf(`{"username":"impostor","password":"%s"}`, testCoachPassword)
	req, err := http.NewRequest("POST", "/a/login", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	respRec := httptest.NewRecorder()

	setup.handler.HandleLogin(respRec, req)
	require.Equal(t, http.StatusBadRequest, respRec.Code)
}

func TestHandler_Logout_NoToken(t *testing.T) {
	setup := newCoachTestSetup(t)

	req, err := http.NewRequest("GET", "/a/logout", nil)
	require.NoError(t, err)
	respRec := httptest.NewRecorder()

	setup.handler.HandleLogout(respRec, req)
	require.Equal(t, http.StatusUnauthorized, respRec.Code)
}

func TestHandler_Leaderboard(t *testing.T) {
	setup := newCoachTestSetup(t)

	entries := []trainlogsync.LeaderboardEntry{
		{AthleteName: "Mira", DistanceTotal: 126000, PerformanceAvg: 7.2, EngagementAvg: 8.1, SessionsCount: 42},
		{AthleteName: "Jonas", DistanceTotal: 114500, PerformanceAvg: 6.8, EngagementAvg: 7.4, SessionsCount: 38},
	}
	// no days param: the default one-month window goes to the remote
	setup.remote.EXPECT().Leaderboard(gomock.Any(), 30).Return(entries, nil)

	req, err := http.NewRequest("GET", "/coach/leaderboard", nil)
	require.NoError(t, err)
	respRec := httptest.NewRecorder()

	setup.handler.HandleLeaderboard(respRec, req)
	require.Equal(t, http.StatusOK, respRec.Code)

	var resp coach.LeaderboardResponse
	require.NoError(t, json.Unmarshal(respRec.Body.Bytes(), &resp))
	assert.Equal(t, entries, resp.Entries)
}

func TestHandler_Leaderboard_DaysParam(t *testing.T) {
	setup := newCoachTestSetup(t)

	setup.remote.EXPECT().Leaderboard(gomock.Any(), 90).Return(nil, nil)

	req, err := http.NewRequest("GET", "/coach/leaderboard?days=90", nil)
	require.NoError(t, err)
	respRec := httptest.NewRecorder()

	setup.handler.HandleLeaderboard(respRec, req)
	require.Equal(t, http.StatusOK, respRec.Code)
}

func TestHandler_Leaderboard_InvalidDays(t *testing.T) {
	setup := newCoachTestSetup(t)

	req, err := http.NewRequest("GET", "/coach/leaderboard?days=zero", nil)
	require.NoError(t, err)
	respRec := httptest.NewRecorder()

	setup.handler.HandleLeaderboard(respRec, req)
	require.Equal(t, http.StatusBadRequest, respRec.Code)
}

func TestHandler_Leaderboard_RemoteDown(t *testing.T) {
	setup := newCoachTestSetup(t)
	setup.remote.EXPECT().
		Leaderboard(gomock.Any(), 30).
		Return(nil, errors.New("sheet endpoint down"))

	req, err := http.NewRequest("GET", "/coach/leaderboard", nil)
	require.NoError(t, err)
	respRec := httptest.NewRecorder()

	setup.handler.HandleLeaderboard(respRec, req)
	require.Equal(t, http.StatusBadGateway, respRec.Code)
}

func TestHandler_AthleteTrends(t *testing.T) {
	setup := newCoachTestSetup(t)

	today := time.Now().UTC()
	rec1 := trainlog.SessionRecord{
		AthleteName: "Jonas",
		SessionDate: trainlog.NewCalendarDate(today.AddDate(0, 0, -1)),
		TimeSlot:    trainlog.SlotMorning,
		Duration:    60,
		RPE:         5,
	}
	rec2 := trainlog.SessionRecord{
		AthleteName: "Jonas",
		SessionDate: trainlog.NewCalendarDate(today.AddDate(0, 0, -2)),
		TimeSlot:    trainlog.SlotEvening,
		Duration:    80,
		RPE:         7,
	}
	setup.remote.EXPECT().
		Fetch(gomock.Any(), "Jonas", 0).
		Return([]trainlog.SessionRecord{rec1, rec2}, nil)

	req, err := http.NewRequest("GET", "/coach/athlete/Jonas/trends?days=7", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"name": "Jonas"})
	respRec := httptest.NewRecorder()

	setup.handler.HandleAthleteTrends(respRec, req)
	require.Equal(t, http.StatusOK, respRec.Code)

	var resp coach.AthleteTrendsResponse
	require.NoError(t, json.Unmarshal(respRec.Body.Bytes(), &resp))
	assert.Equal(t, "Jonas", resp.AthleteName)
	assert.Equal(t, 2, resp.Sessions)
	assert.Equal(t, 60*5+80*7, resp.TotalLoad)
	require.Len(t, resp.LoadSeries, 2)
	assert.True(t, resp.LoadSeries[0].Date.Before(resp.LoadSeries[1].Date.Time))
}

func TestHandler_AthleteTrends_InvalidDays(t *testing.T) {
	setup := newCoachTestSetup(t)

	req, err := http.NewRequest("GET", "/coach/athlete/Jonas/trends?days=-3", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"name": "Jonas"})
	respRec := httptest.NewRecorder()

	setup.handler.HandleAthleteTrends(respRec, req)
	require.Equal(t, http.StatusBadRequest, respRec.Code)
}
