package util

import (
	"os/user"

	"github.com/pkg/errors"
)

// Homedir returns the home directory of the current user.
func Homedir() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "failed to look up current user")
	}
	return u.HomeDir, nil
}
