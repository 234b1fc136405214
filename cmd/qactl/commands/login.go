package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/qadesk/qadesk/internal/auth"
)

const loginUsage = `authentication method required

Usage: qactl login <method> [--server URL] [--token ID_TOKEN]

Methods:
  none   Anonymous session (if the server allows it)
  oidc   OIDC login; pass --token to exchange an ID token directly`

// LoginCommand obtains a session token and saves it in the home directory
func LoginCommand(env *Env, args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return errors.New(loginUsage)
	}
	method := args[0]

	loginFlags := flag.NewFlagSet("login", flag.ContinueOnError)
	loginFlags.SetOutput(env.Stderr)
	var serverURL, idToken string
	loginFlags.StringVar(&serverURL, "server", DefaultServerURL, "qadesk server URL")
	loginFlags.StringVar(&idToken, "token", "", "OIDC ID token to exchange (oidc only)")
	if err := loginFlags.Parse(args[1:]); err != nil {
		return err
	}

	ctx := context.Background()
	client := newAPIClient(env.Client, serverURL, "")
	_, _ = fmt.Fprintf(env.Stdout, "Logging in to %s with %s...\n", serverURL, method)

	var (
		token     string
		principal string
	)
	switch method {
	case "none":
		var resp auth.TokenResponse
		if err := client.do(ctx, http.MethodPost, "/v0/auth/none", nil, &resp); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		token, principal = resp.Token, string(resp.Principal)
	case "oidc":
		if idToken != "" {
			var resp auth.TokenResponse
			body := map[string]string{"oidc_token": idToken}
			if err := client.do(ctx, http.MethodPost, "/v0/auth/oidc", body, &resp); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			token, principal = resp.Token, string(resp.Principal)
			break
		}

		pasted, err := browserLogin(ctx, env, client)
		if err != nil {
			return err
		}
		token = pasted
	default:
		return fmt.Errorf("unknown authentication method: %s\nFor a list of available methods, run: qactl login", method)
	}

	if err := env.saveSession(Session{Token: token, Method: method, Server: serverURL}); err != nil {
		return err
	}

	if principal != "" {
		_, _ = fmt.Fprintf(env.Stdout, "✓ Successfully logged in as %s\n", principal)
	} else {
		_, _ = fmt.Fprintln(env.Stdout, "✓ Successfully logged in")
	}
	return nil
}

// browserLogin starts the authorization code flow and reads back the session
// token the callback page displays
func browserLogin(ctx context.Context, env *Env, client *apiClient) (string, error) {
	var start struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := client.do(ctx, http.MethodGet, "/v0/auth/oidc/start", nil, &start); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	_, _ = fmt.Fprintf(env.Stdout, "\nVisit this URL to log in:\n\n  %s\n\n", start.AuthorizationURL)
	_, _ = fmt.Fprint(env.Stdout, "Paste the token shown after login: ")

	line, err := bufio.NewReader(env.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", errors.New("no token entered")
	}

	// Make sure the pasted token is accepted before saving it
	check := newAPIClient(client.http, client.server, token)
	var role struct {
		Role string `json:"role"`
	}
	if err := check.do(ctx, http.MethodGet, "/v0/role", nil, &role); err != nil {
		return "", fmt.Errorf("token rejected: %w", err)
	}
	return token, nil
}

// LogoutCommand removes the saved session
func LogoutCommand(env *Env) error {
	if err := os.Remove(env.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	_, _ = fmt.Fprintln(env.Stdout, "✓ Successfully logged out")
	return nil
}
