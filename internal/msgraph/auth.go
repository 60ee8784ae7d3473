package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Mail.Send",
	"https://graph.microsoft.com/User.Read",
	"offline_access",
}

// ErrNotSignedIn is returned when no usable token is stored.
var ErrNotSignedIn = errors.New("not signed in to Microsoft Graph (run: sj outlook login)")

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// DefaultTokenPath returns ~/.sojournii/auth/msgraph_tokens.json.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sojournii", "auth", "msgraph_tokens.json"), nil
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Auth signs in to Microsoft Graph with the device code flow and keeps the
// token in a file.
type Auth struct {
	cfg       *oauth2.Config
	tokenPath string
	logger    *slog.Logger
}

// NewAuth returns an Auth for the tenant and client. An empty tokenPath uses
// DefaultTokenPath.
func NewAuth(tenantID, clientID, tokenPath string, logger *slog.Logger) (*Auth, error) {
	if tokenPath == "" {
		var err error
		if tokenPath, err = DefaultTokenPath(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{cfg: oauth2Config(tenantID, clientID), tokenPath: tokenPath, logger: logger}, nil
}

// loadToken loads a previously saved token from disk. A missing file yields
// a nil token.
func (a *Auth) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", a.tokenPath, err)
	}
	return &tok, nil
}

// saveToken persists a token to disk.
func (a *Auth) saveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := a.tokenPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, a.tokenPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Login runs the device code flow, printing the sign-in instructions to out,
// and stores the resulting token.
func (a *Auth) Login(ctx context.Context, out io.Writer) error {
	resp, err := a.cfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	tok, err := a.cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return fmt.Errorf("device authentication failed: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		return err
	}
	a.logger.Info("signed in to Microsoft Graph", "token_file", a.tokenPath)
	return nil
}

// Client returns a Graph client using the stored token. Refreshed tokens are
// written back. It never prompts, so it is usable from daemons.
func (a *Auth) Client(ctx context.Context) (*Client, error) {
	tok, err := a.loadToken()
	if err != nil {
		return nil, err
	}
	if tok == nil || (!tok.Valid() && tok.RefreshToken == "") {
		return nil, ErrNotSignedIn
	}
	ts := &savingTokenSource{ts: a.cfg.TokenSource(ctx, tok), auth: a}
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		baseURL:    graphBaseURL,
	}, nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	auth *Auth
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.auth.saveToken(tok); err != nil {
			s.auth.logger.Warn("could not save refreshed token", "error", err)
		}
	}
	return tok, nil
}
