package engine

import (
	"log/slog"

	"github.com/tartampluch/go-patro/internal/config"
	"github.com/zalando/go-keyring"
)

// ResolvePassword returns the address book password stored in the OS
// keyring for user. A missing entry or keyring yields "".
func ResolvePassword(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyUser, user,
			config.LogKeyError, err)
		return ""
	}
	return p
}

// StorePassword saves the address book password for user in the OS keyring.
func StorePassword(user, pass string) error {
	return keyring.Set(config.KeyringService, user, pass)
}
