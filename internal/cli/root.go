// Package cli is the terminal client of MyContacts. It plays the role of the browser front end:
// login and registration, a dashboard, the searchable contact list and the detail and edit
// views.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/mycontacts/internal/client"
	"gitlab.com/dirk.krummacker/mycontacts/internal/view"
)

// DefaultServer is used when neither --server nor MYCONTACTS_URL is set.
const DefaultServer = "http://localhost:10000"

// App carries what every command needs. The client is created once the flags are parsed.
type App struct {
	stdin io.Reader
	in    *bufio.Reader
	out   io.Writer
	now   func() time.Time

	server      string
	sessionPath string
	session     *client.Session
	client      *client.Client
}

// NewRootCommand builds the command tree reading from in and writing to out and errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &App{stdin: in, in: newReader(in), out: out, now: time.Now}

	root := &cobra.Command{
		Use:           "mycontacts",
		Short:         "Manage your contacts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	defaultServer := os.Getenv("MYCONTACTS_URL")
	if defaultServer == "" {
		defaultServer = DefaultServer
	}
	root.PersistentFlags().StringVar(&a.server, "server", defaultServer, "base URL of the MyContacts API")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default: user config directory)")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.dashboardCommand(),
		a.listCommand(),
		a.addCommand(),
		a.showCommand(),
		a.editCommand(),
		a.deleteCommand(),
		a.benchCommand(),
	)
	return root
}

// Execute runs the client with the process arguments and returns the exit code.
func Execute() int {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		if fields := fieldErrors(err); len(fields) > 0 {
			view.RenderFieldErrors(os.Stderr, fields)
		}
		return 1
	}
	return 0
}

func (a *App) setup() error {
	path := a.sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return err
		}
	}
	a.session = client.NewSession(path)
	if err := a.session.Load(); err != nil {
		return err
	}
	a.client = client.New(a.server, a.session)
	return nil
}

// describe turns client errors into the sentence shown to the user.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return "Session expired. Please login again."
	case errors.Is(err, client.ErrNotLoggedIn):
		return "You are not logged in. Run: mycontacts login"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Title
	default:
		return err.Error()
	}
}

func fieldErrors(err error) map[string]string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
