//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	domain "github.com/oshokin/easy-scpi/internal/domain/instrument"
)

// errNoUsername is returned when neither the user database nor the environment names the user.
var errNoUsername = errors.New("cannot determine current user")

// DetectActor names the local machine and user for the gateway state.
// The user comes from the user database, then from USER or USERNAME.
// Windows account names lose their DOMAIN\ prefix.
func DetectActor() (*domain.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	username, err := currentUsername()
	if err != nil {
		return nil, err
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: username,
	}, nil
}

func currentUsername() (string, error) {
	var name string

	if current, err := user.Current(); err == nil {
		name = current.Username
	}

	for _, key := range []string{"USER", "USERNAME"} {
		if name != "" {
			break
		}

		name = os.Getenv(key)
	}

	return trimAccountDomain(name)
}

// trimAccountDomain turns "DOMAIN\user" into "user".
func trimAccountDomain(name string) (string, error) {
	if idx := strings.LastIndex(name, `\`); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errNoUsername
	}

	return name, nil
}
