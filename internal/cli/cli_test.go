package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/dirk.krummacker/mycontacts/internal/auth"
	"gitlab.com/dirk.krummacker/mycontacts/internal/client"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/contacts"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/service"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store/memory"
	"gitlab.com/dirk.krummacker/mycontacts/internal/token"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// harness is one API server plus one session file, like a user at one terminal. Requests for
// which fail returns true are answered with 500 before they reach the API.
type harness struct {
	server  *httptest.Server
	session string
	fail    func(r *http.Request) bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := memory.New()
	log := logger.NewNop()
	authService, err := auth.NewService(s, token.NewJWT("test-secret", time.Hour), bcrypt.MinCost, log)
	require.NoError(t, err)
	validator, err := contacts.NewValidator(config.PolicyStrict)
	require.NoError(t, err)

	gin.SetMode(gin.ReleaseMode)
	router := service.SetupHttpRouter(service.Dependencies{
		Config:   &config.Config{Environment: "test", GinLogging: "off"},
		Logger:   log,
		Auth:     authService,
		Contacts: contacts.NewService(s, validator, log),
		Store:    s,
		Version:  "test",
	})
	h := &harness{session: filepath.Join(t.TempDir(), "session.json")}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.fail != nil && h.fail(r) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(h.server.Close)
	return h
}

// run executes the client with the given arguments and stdin and returns what it printed.
func (h *harness) run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(append([]string{"--server", h.server.URL, "--session", h.session}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(t, err, out)
	return out
}

// firstID returns the ID column of the first row of a contact table.
func firstID(t *testing.T, table string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.GreaterOrEqual(t, len(lines), 2, table)
	return strings.Fields(lines[1])[0]
}

func TestRegisterLoginLogout(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "secret1\n", "register", "alice")
	assert.Contains(t, out, "Registered and logged in as alice.")

	out = h.mustRun(t, "", "whoami")
	assert.Contains(t, out, "alice (member since")

	out = h.mustRun(t, "", "logout")
	assert.Contains(t, out, "Logged out.")

	_, err := h.run("", "whoami")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	out = h.mustRun(t, "alice\nsecret1\n", "login")
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Logged in as alice.")
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")
	h.mustRun(t, "", "logout")

	_, err := h.run("wrong-password\n", "login", "alice")
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", describe(err))
}

func TestAddListShowEditDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")

	out := h.mustRun(t, "", "add", "--name", "Bob", "--email", "bob@x.com", "--phone", "555-0100")
	assert.Contains(t, out, "created.")
	assert.Contains(t, out, "bob@x.com")

	// missing values are asked for
	out = h.mustRun(t, "Carol\ncarol@x.com\n555-0199\n", "add")
	assert.Contains(t, out, "Name: Email: Phone: ")
	assert.Contains(t, out, "carol@x.com")

	out = h.mustRun(t, "", "list")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Carol")

	out = h.mustRun(t, "", "list", "--search", "CAROL")
	assert.NotContains(t, out, "Bob")
	id := firstID(t, out)

	out = h.mustRun(t, "", "show", id)
	assert.Contains(t, out, "carol@x.com")

	out = h.mustRun(t, "", "edit", id, "--phone", "555-0200")
	assert.Contains(t, out, "Contact updated.")
	assert.Contains(t, out, "555-0200")
	assert.Contains(t, out, "Carol")

	// empty answers keep the current value
	out = h.mustRun(t, "Caroline\n\n\n", "edit", id)
	assert.Contains(t, out, "Name [Carol]: ")
	assert.Contains(t, out, "Caroline")
	assert.Contains(t, out, "555-0200")

	out = h.mustRun(t, "n\n", "delete", id)
	assert.Contains(t, out, "Cancelled.")
	h.mustRun(t, "", "show", id)

	out = h.mustRun(t, "", "delete", id, "--yes")
	assert.Contains(t, out, "Deleted Caroline.")

	_, err := h.run("", "show", id)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestAddInvalidContact(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")

	_, err := h.run("", "add", "--name", "Bob", "--email", "not-an-email", "--phone", "555-0100")
	require.Error(t, err)
	assert.Contains(t, fieldErrors(err), "email")
}

func TestAddRequiresLogin(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("Bob\n", "add")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.NotContains(t, out, "Name:")
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")

	out := h.mustRun(t, "", "dashboard")
	assert.Contains(t, out, "Welcome back, alice!")
	assert.Contains(t, out, "You have no contacts yet")

	h.mustRun(t, "", "add", "--name", "Bob", "--email", "bob@x.com", "--phone", "555-0100")
	out = h.mustRun(t, "", "dashboard")
	assert.Contains(t, out, "Total contacts:   1")
	assert.Contains(t, out, "Added this week:  1")
	assert.Contains(t, out, "Bob")
}

func TestSessionExpired(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, client.NewSession(h.session).Set("not-a-token", apimodel.User{Username: "alice"}))

	_, err := h.run("", "list")
	require.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Equal(t, "Session expired. Please login again.", describe(err))

	// the session was cleared, so the next call does not reach the server
	_, err = h.run("", "list")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestBench(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")

	out := h.mustRun(t, "", "bench", "--sizes", "2,3")
	assert.Contains(t, out, "  Elements      POST       PUT       GET    DELETE ")
	assert.Contains(t, out, "\n         2")
	assert.Contains(t, out, "\n         3")

	// the benchmark cleans up after itself
	out = h.mustRun(t, "", "list")
	assert.Contains(t, out, "No contacts found.")

	_, err := h.run("", "bench", "--sizes", "0")
	assert.Error(t, err)
}

// TestBenchCleansUpAfterFailure expects that contacts created before a failing request are
// removed again.
func TestBenchCleansUpAfterFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "secret1\n", "register", "alice")

	h.fail = func(r *http.Request) bool { return r.Method == http.MethodPut }
	_, err := h.run("", "bench", "--sizes", "3")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	h.fail = nil
	out := h.mustRun(t, "", "list")
	assert.Contains(t, out, "No contacts found.")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "boom", describe(errors.New("boom")))
	assert.Equal(t, "Not Found", describe(&client.APIError{Status: 404, Title: "Not Found"}))
	assert.Equal(t, "contact not found", describe(&client.APIError{Status: 404, Title: "Not Found", Message: "contact not found"}))
	assert.Nil(t, fieldErrors(errors.New("boom")))
}
