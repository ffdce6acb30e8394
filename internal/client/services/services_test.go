package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newAPI mounts r under /api and returns a client pointed at it.
func newAPI(t *testing.T, r chi.Router) *client.HTTPClient {
	t.Helper()
	root := chi.NewRouter()
	root.Mount("/api", r)
	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)

	c, err := client.New(client.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return c
}

// countingRouter fails the test if any request reaches the backend.
func countingRouter(hits *atomic.Int32) chi.Router {
	r := chi.NewRouter()
	r.HandleFunc("/*", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTeapot)
	})
	return r
}

func TestAuth_Login(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        models.User{ID: 1, Email: creds.Email},
		})
	})
	svc := NewAuthService(newAPI(t, r))

	resp, err := svc.Login(context.Background(), models.LoginCredentials{Email: " a@b.c ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "a@b.c", resp.User.Email)

	_, err = svc.Login(context.Background(), models.LoginCredentials{Email: "a@b.c", Password: "wrong"})
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", client.Message(err, "Login failed. Please try again."))
}

func TestAuth_LocalChecksSkipNetwork(t *testing.T) {
	var hits atomic.Int32
	svc := NewAuthService(newAPI(t, countingRouter(&hits)))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"login empty", func() error {
			_, err := svc.Login(ctx, models.LoginCredentials{Email: "a@b.c"})
			return err
		}, msgCredentialsRequired},
		{"signup mismatch", func() error {
			_, err := svc.Signup(ctx, models.SignupData{Email: "a@b.c", Password: "password1", ConfirmPassword: "password2"})
			return err
		}, "Passwords do not match"},
		{"signup short", func() error {
			_, err := svc.Signup(ctx, models.SignupData{Email: "a@b.c", Password: "short", ConfirmPassword: "short"})
			return err
		}, "Password must be at least 8 characters"},
		{"forgot empty", func() error {
			_, err := svc.RequestPasswordReset(ctx, "  ")
			return err
		}, msgEmailRequired},
		{"reset short", func() error {
			_, err := svc.ResetPassword(ctx, "reset-token", "1234")
			return err
		}, "Password must be at least 8 characters"},
		{"reset no token", func() error {
			_, err := svc.ResetPassword(ctx, "", "longenough")
			return err
		}, msgResetTokenRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, client.KindLocal, client.KindOf(err))
			assert.ErrorIs(t, err, client.ErrValidation)
			assert.Equal(t, tt.msg, client.Message(err, ""))
		})
	}
	assert.Zero(t, hits.Load())
}

func TestAuth_SignupDoesNotSendConfirmation(t *testing.T) {
	var raw map[string]any
	r := chi.NewRouter()
	r.Post("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		writeJSON(w, http.StatusCreated, models.AuthResponse{AccessToken: "new", User: models.User{ID: 2, Email: "n@b.c"}})
	})
	svc := NewAuthService(newAPI(t, r))

	resp, err := svc.Signup(context.Background(), models.SignupData{
		Email: "n@b.c", Username: "n", Password: "password1", ConfirmPassword: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.AccessToken)
	assert.NotContains(t, raw, "confirm_password")
	assert.NotContains(t, raw, "ConfirmPassword")
	assert.Equal(t, "password1", raw["password"])
}

func TestAuth_MeRefreshAndReset(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.User{ID: 3, Email: "me@b.c"})
	})
	r.Post("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: "fresh"})
	})
	r.Post("/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordResetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "me@b.c", req.Email)
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "<b>Check</b> your inbox"})
	})
	r.Post("/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordReset
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Token != "good" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Password updated"})
	})
	svc := NewAuthService(newAPI(t, r))
	ctx := context.Background()

	u, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)

	tok, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	msg, err := svc.RequestPasswordReset(ctx, "me@b.c")
	require.NoError(t, err)
	assert.Equal(t, "Check your inbox", msg)

	msg, err = svc.ResetPassword(ctx, "good", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg)

	_, err = svc.ResetPassword(ctx, "bad", "newpassword")
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "Invalid or expired token", client.Message(err, ""))
}

func TestDashboard_Calls(t *testing.T) {
	var gotLimit string
	r := chi.NewRouter()
	r.Get("/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.DashboardData{
			RiskScore:  models.RiskScore{OverallScore: 42, Category: models.RiskMedium},
			QuickStats: models.QuickStats{TotalConnections: 2},
		})
	})
	r.Get("/dashboard/risk-score", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.RiskScore{OverallScore: 30})
	})
	r.Get("/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.QuickStats{PointsEarned: 150})
	})
	r.Get("/dashboard/activity", func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		writeJSON(w, http.StatusOK, []models.RecentActivity{{ID: 1, Type: models.ActivityScoreUpdated}})
	})
	r.Post("/dashboard/risk-score/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.RiskScore{OverallScore: 25})
	})
	svc := NewDashboardService(newAPI(t, r))
	ctx := context.Background()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42.0, snap.RiskScore.OverallScore)
	assert.Equal(t, 2, snap.QuickStats.TotalConnections)

	rs, err := svc.RiskScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, rs.OverallScore)

	qs, err := svc.QuickStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, qs.PointsEarned)

	acts, err := svc.RecentActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "10", gotLimit)

	_, err = svc.RecentActivity(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "3", gotLimit)

	rs, err = svc.RefreshRiskScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, rs.OverallScore)
}

func TestConnections_Calls(t *testing.T) {
	var deleted, synced string
	var update models.ConnectionSettings
	r := chi.NewRouter()
	r.Get("/connections", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.SocialConnection{{ID: 1, Platform: models.PlatformTwitter}})
	})
	r.Post("/connections", func(w http.ResponseWriter, r *http.Request) {
		var in models.AddConnectionData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, models.SocialConnection{ID: 9, Platform: in.Platform, PlatformUsername: in.PlatformUsername})
	})
	r.Delete("/connections/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = chi.URLParam(r, "id")
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/connections/{id}/sync", func(w http.ResponseWriter, r *http.Request) {
		synced = chi.URLParam(r, "id")
		writeJSON(w, http.StatusOK, models.SyncStatus{Status: models.SyncCompleted})
	})
	r.Put("/connections/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		writeJSON(w, http.StatusOK, models.SocialConnection{ID: 9, IsActive: false})
	})
	svc := NewConnectionService(newAPI(t, r))
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	c, err := svc.Add(ctx, models.AddConnectionData{Platform: " Instagram ", PlatformUsername: "me"})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformInstagram, c.Platform)

	_, err = svc.Add(ctx, models.AddConnectionData{Platform: "myspace", PlatformUsername: "me"})
	assert.Equal(t, client.KindLocal, client.KindOf(err))

	_, err = svc.Add(ctx, models.AddConnectionData{Platform: models.PlatformFacebook})
	assert.Equal(t, client.KindLocal, client.KindOf(err))

	require.NoError(t, svc.Delete(ctx, 9))
	assert.Equal(t, "9", deleted)

	st, err := svc.Sync(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, models.SyncCompleted, st.Status)
	assert.Equal(t, "9", synced)

	off := false
	_, err = svc.Update(ctx, 9, models.ConnectionSettings{IsActive: &off})
	require.NoError(t, err)
	require.NotNil(t, update.IsActive)
	assert.False(t, *update.IsActive)
	assert.Nil(t, update.PrivacySetting)
}

func TestChallenges_Calls(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/challenges", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.Challenge{{ID: 1}, {ID: 2}})
	})
	r.Get("/challenges/progress", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.ChallengeProgress{{ChallengeID: 1, Status: models.ProgressInProgress}})
	})
	r.Get("/challenges/badges", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.Badge{{ID: 4, Tier: models.TierGold}})
	})
	r.Get("/challenges/leaderboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.Leaderboard{CurrentUserRank: 3, TopUsers: []models.LeaderboardEntry{{Rank: 1}}})
	})
	r.Get("/challenges/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Challenge not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.Challenge{ID: 1, Title: "Lock down"})
	})
	r.Post("/challenges/{id}/start", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.ChallengeProgress{ChallengeID: 1, Status: models.ProgressInProgress})
	})
	r.Post("/challenges/{id}/complete", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.ChallengeProgress{ChallengeID: 1, Status: models.ProgressCompleted, ProgressPercentage: 100})
	})
	svc := NewChallengeService(newAPI(t, r))
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ch, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lock down", ch.Title)

	_, err = svc.Get(ctx, 99)
	require.ErrorIs(t, err, client.ErrNotFound)

	p, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressInProgress, p.Status)

	p, err = svc.Complete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressCompleted, p.Status)

	prog, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Len(t, prog, 1)

	badges, err := svc.Badges(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TierGold, badges[0].Tier)

	lb, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, lb.CurrentUserRank)
}

func TestAnalysis_Calls(t *testing.T) {
	var period, days, kind string
	r := chi.NewRouter()
	r.Get("/analysis/trends", func(w http.ResponseWriter, r *http.Request) {
		period = r.URL.Query().Get("period")
		writeJSON(w, http.StatusOK, models.TrendData{Labels: []string{"w1", "w2"}})
	})
	r.Get("/analysis/platform-breakdown", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []models.PlatformBreakdown{{Platform: "twitter", Percentage: 100}})
	})
	r.Get("/analysis/risk-history", func(w http.ResponseWriter, r *http.Request) {
		days = r.URL.Query().Get("days")
		writeJSON(w, http.StatusOK, []models.RiskHistory{{Date: "2026-01-01", Score: 50}})
	})
	r.Get("/analysis/report", func(w http.ResponseWriter, r *http.Request) {
		kind = r.URL.Query().Get("type")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	svc := NewAnalysisService(newAPI(t, r))
	ctx := context.Background()

	td, err := svc.Trends(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "30d", period)
	assert.Len(t, td.Labels, 2)

	_, err = svc.Trends(ctx, "1y")
	assert.Equal(t, client.KindLocal, client.KindOf(err))

	pb, err := svc.PlatformBreakdown(ctx)
	require.NoError(t, err)
	assert.Len(t, pb, 1)

	hist, err := svc.RiskHistory(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, "30", days)
	assert.Len(t, hist, 1)

	body, err := svc.Report(ctx, models.ReportSummary)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, "summary", kind)

	_, err = svc.Report(ctx, "weekly")
	assert.Equal(t, client.KindLocal, client.KindOf(err))
}
