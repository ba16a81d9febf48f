package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCredentials(t *testing.T, r *http.Request, token string) {
	t.Helper()
	assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
	cookie, err := r.Cookie(DefaultSessionCookie)
	require.NoError(t, err)
	assert.Equal(t, token, cookie.Value)
}

func TestSession_GetCurrentUser_CachedUntilSignOut(t *testing.T) {
	var userCalls, logoutCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		userCalls.Add(1)
		requireCredentials(t, r, "tok")
		writeData(w, http.StatusOK, map[string]any{"id": "u1", "display_name": "Ada"})
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		logoutCalls.Add(1)
		requireCredentials(t, r, "tok")
		writeData(w, http.StatusOK, map[string]any{"signed_out": true})
	})
	s := newServer(t, mux).NewSession("tok")
	ctx := context.Background()

	u, err := s.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	_, err = s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), userCalls.Load())

	s.Invalidate()
	_, err = s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), userCalls.Load())

	require.NoError(t, s.SignOut(ctx))
	assert.Equal(t, int32(1), logoutCalls.Load())
	assert.False(t, s.SignedIn())

	u, err = s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, int32(2), userCalls.Load())

	// signing out twice is a no-op
	require.NoError(t, s.SignOut(ctx))
	assert.Equal(t, int32(1), logoutCalls.Load())
}

func TestSession_GetCurrentUser_NonSuccessIsAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "ERR_TOKEN_EXPIRED", "Session has expired")
	})
	s := newServer(t, mux).NewSession("expired")

	u, err := s.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSession_SignOut_ClearsStateOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadGateway, "ERR_STORE_UNAVAILABLE", "down")
	})
	s := newServer(t, mux).NewSession("tok")

	err := s.SignOut(context.Background())
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Empty(t, s.Token())
}

func TestSession_ApplicationCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/applications", func(w http.ResponseWriter, r *http.Request) {
		requireCredentials(t, r, "tok")
		writeData(w, http.StatusOK, []map[string]any{{"id": 3, "company": "Allens", "status": "Applied"}})
	})
	mux.HandleFunc("POST /api/applications", func(w http.ResponseWriter, r *http.Request) {
		requireCredentials(t, r, "tok")
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Allens", body["company"])
		assert.NotContains(t, body, "notes")
		writeData(w, http.StatusCreated, map[string]any{"id": 3, "company": "Allens", "role": "Clerk", "status": "Applied", "priority": "Medium"})
	})
	mux.HandleFunc("PUT /api/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		requireCredentials(t, r, "tok")
		assert.Equal(t, "3", r.PathValue("id"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "Offer"}, body)
		writeData(w, http.StatusOK, map[string]any{"id": 3, "company": "Allens", "status": "Offer"})
	})
	mux.HandleFunc("DELETE /api/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "3" {
			writeError(w, http.StatusNotFound, "ERR_NOT_FOUND", "Application not found")
			return
		}
		writeData(w, http.StatusOK, map[string]any{"id": 3, "deleted": true})
	})
	s := newServer(t, mux).NewSession("tok")
	ctx := context.Background()

	apps, err := s.GetApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)

	created, err := s.CreateApplication(ctx, ApplicationInput{Company: "Allens", Role: "Clerk"})
	require.NoError(t, err)
	assert.Equal(t, "Medium", created.Priority)

	status := "Offer"
	updated, err := s.UpdateApplication(ctx, 3, ApplicationPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Offer", updated.Status)

	deleted, err := s.DeleteApplication(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, &DeletedApplication{ID: 3, Deleted: true}, deleted)

	deleted, err = s.DeleteApplication(ctx, 4)
	assert.Nil(t, deleted)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestSession_SubmitExperience(t *testing.T) {
	var seen atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/experiences", func(w http.ResponseWriter, r *http.Request) {
		requireCredentials(t, r, "tok")
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Great team", body["general_experience"])
		assert.NotContains(t, body, "IdempotencyKey")

		status := http.StatusCreated
		if seen.Add(1) > 1 {
			w.Header().Set("Idempotent-Replayed", "true")
			status = http.StatusOK
		}
		writeData(w, status, map[string]any{"id": 9, "company": "Allens", "role": "Clerk", "general_experience": "Great team"})
	})
	s := newServer(t, mux).NewSession("tok")
	general := "Great team"
	in := SubmissionInput{
		Company:        "Allens",
		Role:           "Clerk",
		Narrative:      Narrative{GeneralExperience: &general},
		IdempotencyKey: "key-1",
	}

	sub, replayed, err := s.SubmitExperience(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, int64(9), sub.ID)
	require.NotNil(t, sub.GeneralExperience)
	assert.Equal(t, "Great team", *sub.GeneralExperience)

	_, replayed, err = s.SubmitExperience(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, replayed)
}
