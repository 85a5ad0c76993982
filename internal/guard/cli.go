package guard

import (
	"errors"
	"fmt"

	"maintenanceManagement/internal/session"
)

// ErrLoginRequired is returned by Check when a guard denies the CLI session.
var ErrLoginRequired = errors.New("login required")

// CLINavigator records the redirect a guard asked for instead of following it.
type CLINavigator struct {
	Target string
}

func (n *CLINavigator) Navigate(path string) { n.Target = path }

// Check runs g for a command-line invocation and turns a denial into an error
// telling the user to sign in with the right role.
func Check(g Guard, p session.Provider) error {
	nav := &CLINavigator{}
	if g.CanActivate(p, nav) {
		return nil
	}
	return fmt.Errorf("%w: this command needs the %s role (redirected to %s, run `otctl login`)",
		ErrLoginRequired, g.Role(), nav.Target)
}
