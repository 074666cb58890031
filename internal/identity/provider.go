package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// RemoteError is a non-2xx answer from the remote auth endpoints.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth request failed with status %d", e.Status)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Identity is what the remote API tells us about a signed-in customer.
type Identity struct {
	UserID      string
	Name        string
	Email       string
	AccessToken string
}

// SignUpInput is forwarded to the remote registration endpoint.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// Provider calls the remote API's auth endpoints. It never stores anything.
type Provider struct {
	baseURL string
	http    HTTPDoer
}

// NewProvider creates a remote auth client.
func NewProvider(baseURL string, httpClient HTTPDoer) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Provider{baseURL: baseURL, http: httpClient}
}

type authUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Data struct {
		Token string   `json:"token"`
		User  authUser `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

// SignIn exchanges credentials for a bearer credential.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var resp authResponse
	err := p.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && (remote.Status == http.StatusUnauthorized || remote.Status == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, remote.Message)
		}
		return nil, err
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("sign-in response carried no token")
	}

	return &Identity{
		UserID:      resp.Data.User.ID,
		Name:        resp.Data.User.Name,
		Email:       resp.Data.User.Email,
		AccessToken: resp.Data.Token,
	}, nil
}

// SignUp registers a new customer account. It returns the remote message.
func (p *Provider) SignUp(ctx context.Context, input SignUpInput) (string, error) {
	var resp authResponse
	if err := p.post(ctx, "/api/auth/register", input, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ForgotPassword asks the remote API to send a reset link.
func (p *Provider) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp authResponse
	if err := p.post(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Ping checks that the remote API answers at all; any HTTP status counts.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (p *Provider) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rerr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &rerr)
		return &RemoteError{Status: resp.StatusCode, Message: rerr.Message}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}
