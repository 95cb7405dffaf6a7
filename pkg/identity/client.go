package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var (
	errBaseURLRequired    = errors.New("identity base url is required")
	errServiceKeyRequired = errors.New("identity service key is required")
)

// Client wraps the identity provider's admin API. Portal users authenticate
// against the provider directly; this API only provisions and revokes accounts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the identity admin client from configuration.
func NewClient(cfg config.IdentityConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	serviceKey := strings.TrimSpace(cfg.ServiceKey)
	if serviceKey == "" {
		return nil, errServiceKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// CreateUserParams provisions one portal account.
type CreateUserParams struct {
	Email      string
	Password   string
	Role       enums.UserRole
	CustomerID *uuid.UUID
}

type createUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

// CreateUser provisions an account and returns the provider's user id.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (uuid.UUID, error) {
	if c == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "identity client not configured")
	}
	if strings.TrimSpace(params.Email) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !params.Role.IsValid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", params.Role))
	}

	meta := map[string]any{"role": params.Role.String()}
	if params.CustomerID != nil {
		meta["customer_id"] = params.CustomerID.String()
	}

	payload, err := json.Marshal(createUserRequest{
		Email:        params.Email,
		Password:     params.Password,
		EmailConfirm: true,
		AppMetadata:  meta,
	})
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal create user request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(payload))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build create user request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute create user request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "an account already exists for this email")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return uuid.Nil, c.statusError(resp, "user provisioning failed")
	}

	var parsed createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode create user response")
	}
	id, err := uuid.Parse(parsed.ID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provider returned invalid user id")
	}
	return id, nil
}

// DeleteUser revokes the account with the given provider id.
func (c *Client) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "identity client not configured")
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/users/"+userID.String(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build delete user request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute delete user request")
	}
	defer func() { _ = resp.Body.Close() }()

	// already gone is fine for revocation
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp, "user revocation failed")
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) statusError(resp *http.Response, msg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), msg)
}
