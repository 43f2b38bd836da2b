// Package keyring keeps the PostgreSQL connection string in the OS keyring,
// so credentials never have to appear on the command line or in a file.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/dailyos/internal/constants"
)

var (
	ErrNotFound = errors.New("no connection string stored in keyring")
	// ErrKeyringUnavailable wraps any failure to talk to the OS keyring itself,
	// such as a missing secret service on a headless machine.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Status summarizes the keyring for config show and doctor.
type Status int

const (
	Unavailable Status = iota
	Empty
	Stored
)

func (s Status) String() string {
	switch s {
	case Stored:
		return "connection string stored"
	case Empty:
		return "no connection string stored"
	default:
		return "unavailable"
	}
}

// Check reports whether the keyring can be read and holds a connection
// string. The error is non-nil only for Unavailable and wraps
// ErrKeyringUnavailable.
func Check() (Status, error) {
	_, err := GetConnectionString()
	switch {
	case err == nil:
		return Stored, nil
	case errors.Is(err, ErrNotFound):
		return Empty, nil
	default:
		return Unavailable, err
	}
}

func GetConnectionString() (string, error) {
	connStr, err := gokeyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		return "", translate("read", err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return translate("write", err)
	}
	return nil
}

// DeleteConnectionString returns ErrNotFound when nothing was stored.
func DeleteConnectionString() error {
	if err := gokeyring.Delete(constants.AppName, constants.DefaultKeyringUser); err != nil {
		return translate("delete", err)
	}
	return nil
}

// translate maps go-keyring errors onto this package's two sentinels.
func translate(op string, err error) error {
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s failed: %v", ErrKeyringUnavailable, op, err)
}
