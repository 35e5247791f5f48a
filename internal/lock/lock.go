// Package lock protects the board behind a 4-digit code asked at startup.
package lock

import (
	"regexp"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
)

const key = "lock"

var codeFormat = regexp.MustCompile(`^[0-9]{4}$`)

var (
	// ErrInvalidCode is returned when a code is not made of 4 digits.
	ErrInvalidCode = errors.New("code must be 4 digits")
	// ErrWrongCode is returned when the given code does not unlock the board.
	ErrWrongCode = errors.New("wrong code")
)

type (
	// Settings is the device-local storage of the lock configuration.
	Settings interface {
		GetSetting(key string, v any) error
		SetSetting(key string, v any) error
		DeleteSetting(key string) error
		IsNotFound(err error) bool
	}

	// A Config is the persisted lock configuration.
	// Code is stored hashed.
	Config struct {
		Enabled bool   `json:"enabled"`
		Code    string `json:"code"`
	}

	// A Lock reads and writes the lock configuration.
	Lock struct {
		settings Settings
	}
)

// ValidCode returns true if code is made of 4 digits.
func ValidCode(code string) bool {
	return codeFormat.MatchString(code)
}

// New returns a new Lock.
func New(settings Settings) *Lock {
	return &Lock{settings: settings}
}

// Config returns the lock configuration, a disabled one when none is stored.
func (l *Lock) Config() (Config, error) {
	var cfg Config
	err := l.settings.GetSetting(key, &cfg)
	if l.settings.IsNotFound(err) {
		return Config{}, nil
	}
	return cfg, errors.Wrap(err, "could not read lock configuration")
}

// Enabled returns true when a code protects the board.
func (l *Lock) Enabled() (bool, error) {
	cfg, err := l.Config()
	return cfg.Enabled, err
}

// Enable protects the board with the given code.
func (l *Lock) Enable(code string) error {
	if !ValidCode(code) {
		return ErrInvalidCode
	}

	hash, err := argon2.GenerateFromPasswordString(code, argon2.Default)
	if err != nil {
		return errors.Wrap(err, "could not hash code")
	}

	err = l.settings.SetSetting(key, Config{Enabled: true, Code: hash})
	return errors.Wrap(err, "could not store lock configuration")
}

// Disable removes the protection.
func (l *Lock) Disable() error {
	return errors.Wrap(l.settings.DeleteSetting(key), "could not remove lock configuration")
}

// Unlock checks the given code. It always succeeds when the lock is disabled.
func (l *Lock) Unlock(code string) error {
	cfg, err := l.Config()
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return nil
	}

	if err = argon2.CompareHashAndPasswordString(cfg.Code, code); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return ErrWrongCode
		}
		return errors.Wrap(err, "could not verify code")
	}
	return nil
}

// Prompt asks the code with ask until it unlocks the board or attempts are exhausted.
func (l *Lock) Prompt(ask func() (string, error), attempts int) error {
	enabled, err := l.Enabled()
	if err != nil || !enabled {
		return err
	}

	for range attempts {
		code, err := ask()
		if err != nil {
			return errors.Wrap(err, "could not read code")
		}

		err = l.Unlock(code)
		if err != ErrWrongCode {
			return err
		}
	}
	return ErrWrongCode
}
