package web_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/accessdeck/webclient/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminPanel(t *testing.T) {
	t.Run("renders_upstream_data", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.addUser("alice")
		env.upstream.addUser("bob")
		logout := "2024-05-01T09:42:00"
		env.upstream.addSession("alice", "2024-05-01T09:12:00", &logout, "30 min")
		env.upstream.addSession("bob", "2024-05-01T10:00:00", nil, "in progress")

		body := env.get("/admin")

		assert.Contains(t, body, "Web Access Monitoring System")
		assert.Contains(t, body, "Users: 2/5")
		assert.Contains(t, body, "<td>alice</td>")
		assert.Contains(t, body, "<td>bob</td>")
		assert.Equal(t, 2, strings.Count(body, `class="delete-btn"`))

		// The open session renders a placeholder logout time and a progress marker
		assert.Contains(t, body, "<td>-</td>")
		assert.Contains(t, body, "in progress")
		assert.Contains(t, body, "30 min")
	})

	t.Run("renders_empty_state", func(t *testing.T) {
		env := newTestEnv(t)

		body := env.get("/admin")

		assert.Contains(t, body, "No access records")
		assert.Contains(t, body, "No session records")
	})

	t.Run("escapes_user_supplied_identifiers", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.addUser(`<script>alert("x")</script>`)

		body := env.get("/admin")

		assert.NotContains(t, body, `<script>alert`)
		assert.Contains(t, body, "&lt;script&gt;")
	})

	t.Run("surfaces_upstream_outage", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.down = true

		body := env.get("/admin")

		assert.Contains(t, body, "Failed to load access history")
		assert.Contains(t, body, "No access records")
	})
}

func TestAdminHistoryFragment(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.addUser("alice")

	body := env.get("/admin/fragments/history")

	// The fragment carries the refreshed counters for an out-of-band header swap
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Contains(t, body, "Users: 1/5")
	assert.Contains(t, body, "<td>alice</td>")
	assert.Equal(t, 1, env.upstream.count("GET /system/info"))
}

func TestAdminAddUser(t *testing.T) {
	t.Run("rejects_empty_user_id_locally", func(t *testing.T) {
		env := newTestEnv(t)

		body := env.postForm("/admin/users", url.Values{"userId": {"   "}})

		assert.Contains(t, body, "Please enter user ID")
		assert.Zero(t, env.upstream.count("POST /access-history"))
	})

	t.Run("rejects_invalid_email_locally", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.CollectProfile = true
		})

		body := env.postForm("/admin/users", url.Values{
			"userId":     {"bob"},
			"name":       {"Bob"},
			"email":      {"not-an-email"},
			"department": {"IT"},
		})

		assert.Contains(t, body, "Please enter a valid email address")
		assert.Zero(t, env.upstream.count("POST /access-history"))

		// The entered values stay in the form
		assert.Contains(t, body, `value="bob"`)
		assert.Contains(t, body, `value="not-an-email"`)
	})

	t.Run("adds_user", func(t *testing.T) {
		env := newTestEnv(t)

		body := env.postForm("/admin/users", url.Values{"userId": {"bob"}})

		assert.Contains(t, body, "User added successfully")
		assert.Contains(t, body, "<td>bob</td>")
		assert.Equal(t, 1, env.upstream.count("POST /access-history"))
	})

	t.Run("surfaces_repeated_login_message", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.addUser("bob")

		body := env.postForm("/admin/users", url.Values{"userId": {"bob"}})

		assert.Contains(t, body, "User login time updated")
	})

	t.Run("reports_upstream_outage", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.down = true

		body := env.postForm("/admin/users", url.Values{"userId": {"bob"}})

		assert.Contains(t, body, "Failed to add user, please try again")
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Run("asks_for_confirmation_first", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.addUser("bob")

		body := env.get("/admin/users/bob/delete")

		assert.Contains(t, body, "bob")
		assert.Contains(t, body, `action="/admin/users/bob/delete"`)

		// Merely opening the confirmation page must not delete anything
		assert.Zero(t, env.upstream.count("DELETE /access-history"))
	})

	t.Run("deletes_after_confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		env.upstream.addUser("bob")
		env.upstream.addSession("bob", "2024-05-01T10:00:00", nil, "in progress")

		historyFetches := env.upstream.count("GET /access-history")
		sessionFetches := env.upstream.count("GET /sessions/all")

		body := env.postForm("/admin/users/bob/delete", nil)

		require.Equal(t, 1, env.upstream.count("DELETE /access-history/bob"))
		assert.Contains(t, body, "User removed successfully")

		// The page re-fetches both lists and no longer shows the user
		assert.Equal(t, historyFetches+1, env.upstream.count("GET /access-history"))
		assert.Equal(t, sessionFetches+1, env.upstream.count("GET /sessions/all"))
		assert.NotContains(t, body, "<td>bob</td>")
	})

	t.Run("surfaces_unknown_user", func(t *testing.T) {
		env := newTestEnv(t)

		body := env.postForm("/admin/users/ghost/delete", nil)

		assert.Contains(t, body, "User not found")
	})
}
