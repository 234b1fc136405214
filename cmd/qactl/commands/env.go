// Package commands implements the qactl subcommands
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/qadesk/qadesk/internal/selection"
)

const (
	DefaultServerURL  = "http://localhost:8080"
	TokenFileName     = ".qadesk_token" //nolint:gosec // Not a credential, just a filename
	SelectionFileName = ".qadesk_selection.json"
)

var (
	// ErrValidationFailed is returned by the validate commands after the
	// details have been written to stderr
	ErrValidationFailed = errors.New("validation failed")
	// ErrNotLoggedIn is returned when a command needs a saved session
	ErrNotLoggedIn = errors.New("not authenticated. Run 'qactl login <method>' first")
)

// Env carries the process state commands depend on
type Env struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	HomeDir string
	Client  *http.Client
}

// DefaultEnv returns an Env bound to the process streams and home directory
func DefaultEnv() (*Env, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Env{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		HomeDir: homeDir,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (e *Env) selector() *selection.Selector {
	return selection.NewSelector(selection.NewFileStore(filepath.Join(e.HomeDir, SelectionFileName)))
}

// Session is the saved login
type Session struct {
	Token  string `json:"token"`
	Method string `json:"method"`
	Server string `json:"server"`
}

func (e *Env) tokenPath() string {
	return filepath.Join(e.HomeDir, TokenFileName)
}

func (e *Env) loadSession() (*Session, error) {
	data, err := os.ReadFile(e.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("invalid token data: %w", err)
	}
	if session.Server == "" {
		session.Server = DefaultServerURL
	}
	return &session, nil
}

func (e *Env) saveSession(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}
	if err := os.WriteFile(e.tokenPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// client returns an API client for the saved session
func (e *Env) client() (*apiClient, error) {
	session, err := e.loadSession()
	if err != nil {
		return nil, err
	}
	return newAPIClient(e.Client, session.Server, session.Token), nil
}
