package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEntryStatus(t *testing.T) {
	t.Run("Success: 200 OK", func(t *testing.T) {
		env := setupEnv(t)
		token := env.registerUser(t, "anna@example.com")
		id := env.createHabit(t, token, `{"title": "Run"}`)

		w := env.do(t, "PUT", "/api/v1/habits/"+id+"/entries/status",
			`{"day": "2026-08-30T15:04:05Z", "status": "completed", "notes": "5k"}`, token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"completed"`)
		assert.Contains(t, w.Body.String(), `"notes":"5k"`)
		// Day comes back normalized to midnight.
		assert.Contains(t, w.Body.String(), `"day":"2026-08-30T00:00:00Z"`)
	})

	t.Run("Fail: 400 Bad Request (Invalid Status)", func(t *testing.T) {
		env := setupEnv(t)
		token := env.registerUser(t, "anna@example.com")
		id := env.createHabit(t, token, `{"title": "Run"}`)

		w := env.do(t, "PUT", "/api/v1/habits/"+id+"/entries/status",
			`{"day": "2026-08-30T00:00:00Z", "status": "done"}`, token)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 403 Forbidden (Foreign Habit)", func(t *testing.T) {
		env := setupEnv(t)
		anna := env.registerUser(t, "anna@example.com")
		bob := env.registerUser(t, "bob@example.com")
		id := env.createHabit(t, anna, `{"title": "Secret"}`)

		w := env.do(t, "PUT", "/api/v1/habits/"+id+"/entries/status",
			`{"day": "2026-08-30T00:00:00Z", "status": "completed"}`, bob)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAddCompletion(t *testing.T) {
	env := setupEnv(t)
	token := env.registerUser(t, "anna@example.com")
	id := env.createHabit(t, token, `{"title": "Water", "target_per_day": 3}`)

	t.Run("Success: 201 Created with completion id", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/habits/"+id+"/entries/completions",
			`{"day": "2026-08-30T00:00:00Z"}`, token)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Completion struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"completion"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Completion.ID)
		assert.Equal(t, "completed", resp.Completion.Status)
	})

	t.Run("Same day accumulates on one entry", func(t *testing.T) {
		w := env.do(t, "POST", "/api/v1/habits/"+id+"/entries/completions",
			`{"day": "2026-08-30T20:00:00Z", "notes": "evening"}`, token)
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, "GET", "/api/v1/habits/"+id+"/entries?from=2026-08-30&to=2026-08-30", "", token)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []struct {
			Completions []json.RawMessage `json:"completions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Len(t, entries[0].Completions, 2)
	})
}

func TestUpdateAndRemoveCompletion(t *testing.T) {
	env := setupEnv(t)
	token := env.registerUser(t, "anna@example.com")
	id := env.createHabit(t, token, `{"title": "Water", "target_per_day": 2}`)

	w := env.do(t, "POST", "/api/v1/habits/"+id+"/entries/completions",
		`{"day": "2026-08-30T00:00:00Z"}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Completion struct {
			ID string `json:"id"`
		} `json:"completion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	completionID := resp.Completion.ID

	t.Run("update status in place", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/v1/habits/"+id+"/entries/completions/"+completionID,
			`{"day": "2026-08-30T00:00:00Z", "status": "failed"}`, token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, "GET", "/api/v1/habits/"+id+"/entries?from=2026-08-30&to=2026-08-30", "", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"failed"`)
	})

	t.Run("remove", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/v1/habits/"+id+"/entries/completions/"+completionID+"?day=2026-08-30", "", token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("removing again is still 204", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/v1/habits/"+id+"/entries/completions/"+completionID+"?day=2026-08-30", "", token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestListEntries(t *testing.T) {
	env := setupEnv(t)
	token := env.registerUser(t, "anna@example.com")
	id := env.createHabit(t, token, `{"title": "Run"}`)

	for _, day := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		w := env.do(t, "PUT", "/api/v1/habits/"+id+"/entries/status",
			`{"day": "`+day+`T00:00:00Z", "status": "completed"}`, token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("range filter", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/habits/"+id+"/entries?from=2026-08-02&to=2026-08-03", "", token)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		assert.Len(t, entries, 2)
	})

	t.Run("bad range: 400", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/habits/"+id+"/entries?from=2026-08-03&to=2026-08-01", "", token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date format: 400", func(t *testing.T) {
		w := env.do(t, "GET", "/api/v1/habits/"+id+"/entries?from=yesterday", "", token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
