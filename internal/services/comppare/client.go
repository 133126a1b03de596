package comppare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.comppare.com.br/api"

const defaultContentType = "application/octet-stream"

// Client represents a CompPare API client
type Client struct {
	baseURL string
	rest    *resty.Client
	logger  logrus.FieldLogger

	mu    sync.RWMutex
	token string
}

var _ ClientAPI = (*Client)(nil)

// Option customizes a Client in NewClient.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.rest = resty.NewWithClient(hc)
		}
	}
}

// NewClient creates a new CompPare client for baseURL. Trailing slashes are
// stripped.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		rest:    resty.New(),
		logger:  discardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rest.
		SetLogger(c.logger).
		SetHeader("Accept", "application/json")

	return c
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token obtained by Login, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsAuthenticated returns true once Login has succeeded
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) checkAuthentication() error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Login authenticates with email and password and arms every later request
// with the returned bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var result LoginResponse
	raw, err := c.do(ctx, http.MethodPost, "/usuarios/autenticar",
		jsonBody{payload: loginRequest{Email: email, Password: password}}, &result)
	if err != nil {
		return nil, err
	}

	if result.Token == "" {
		return nil, &AuthError{Response: raw}
	}

	c.setToken(result.Token)
	c.logger.WithField("email", email).Debug("authenticated")

	return &result, nil
}

// ListFolders returns the folders (and their sub-folders) of the user
func (c *Client) ListFolders(ctx context.Context) (*FolderListResponse, error) {
	if err := c.checkAuthentication(); err != nil {
		return nil, err
	}

	var result FolderListResponse
	if _, err := c.do(ctx, http.MethodGet, "/pastas", noBody{}, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateFolder creates a folder. A nil parentID creates a top-level folder
// and leaves idPastaPai out of the request.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *int64) (*CreateFolderResponse, error) {
	if err := c.checkAuthentication(); err != nil {
		return nil, err
	}

	var result CreateFolderResponse
	body := jsonBody{payload: CreateFolderRequest{Name: name, ParentID: parentID}}
	if _, err := c.do(ctx, http.MethodPost, "/pastas", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UploadImage uploads the file at filePath into the folder folderID
func (c *Client) UploadImage(ctx context.Context, folderID int64, filePath string) (*UploadImageResponse, error) {
	if err := c.checkAuthentication(); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("unable to stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	body := multipartBody{
		fields: map[string]string{"idPasta": strconv.FormatInt(folderID, 10)},
		file: filePart{
			field:       "image",
			fileName:    filepath.Base(filePath),
			contentType: detectContentType(filePath),
			reader:      file,
		},
	}

	var result UploadImageResponse
	if _, err := c.do(ctx, http.MethodPost, "/photos/upload", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func detectContentType(filePath string) string {
	kind, err := filetype.MatchFile(filePath)
	if err != nil || kind == filetype.Unknown {
		return defaultContentType
	}
	return kind.MIME.Value
}

// GetUserData returns the profile of the authenticated user
func (c *Client) GetUserData(ctx context.Context) (*UserDataResponse, error) {
	if err := c.checkAuthentication(); err != nil {
		return nil, err
	}

	var result UserDataResponse
	if _, err := c.do(ctx, http.MethodGet, "/usuarios/dados", noBody{}, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListPlans returns the available subscription plans. No login needed.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var result []Plan
	if _, err := c.do(ctx, http.MethodGet, "/planos", noBody{}, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// ApplyCoupon validates a coupon code against a plan. No login needed.
func (c *Client) ApplyCoupon(ctx context.Context, code string, planID int64) (*CouponResponse, error) {
	var result CouponResponse
	body := jsonBody{payload: ApplyCouponRequest{Code: code, PlanID: planID}}
	if _, err := c.do(ctx, http.MethodPost, "/cupons/aplicar", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
