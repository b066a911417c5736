package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readTerminalPassword is a test seam for term.ReadPassword.
var readTerminalPassword = term.ReadPassword

// prompt prints label and reads one line. EOF after partial input returns the partial line.
func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprintf(a.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptDefault is prompt with a value that an empty answer keeps.
func (a *App) promptDefault(label, current string) (string, error) {
	answer, err := a.prompt(fmt.Sprintf("%s [%s]", label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// password reads a password without echo when stdin is a terminal, and as a plain line
// otherwise.
func (a *App) password() (string, error) {
	if a.stdin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(a.out, "Password: ")
		pw, err := readTerminalPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question; only y and yes count as yes.
func (a *App) confirm(question string) (bool, error) {
	answer, err := a.prompt(question + " [y/N]")
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func newReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}
