package driver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ochronus/gocomppare/internal/fakeapi"
	"github.com/ochronus/gocomppare/internal/services/comppare"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// mockClient fails every call unless the matching func is set.
type mockClient struct {
	login       func(email, password string) (*comppare.LoginResponse, error)
	listFolders func() (*comppare.FolderListResponse, error)
	listPlans   func() ([]comppare.Plan, error)
	calls       []string
}

var errUnexpected = errors.New("unexpected call")

func (m *mockClient) Login(_ context.Context, email, password string) (*comppare.LoginResponse, error) {
	m.calls = append(m.calls, "Login")
	if m.login == nil {
		return nil, errUnexpected
	}
	return m.login(email, password)
}
func (m *mockClient) ListFolders(context.Context) (*comppare.FolderListResponse, error) {
	m.calls = append(m.calls, "ListFolders")
	if m.listFolders == nil {
		return nil, errUnexpected
	}
	return m.listFolders()
}
func (m *mockClient) CreateFolder(context.Context, string, *int64) (*comppare.CreateFolderResponse, error) {
	m.calls = append(m.calls, "CreateFolder")
	return nil, errUnexpected
}
func (m *mockClient) UploadImage(context.Context, int64, string) (*comppare.UploadImageResponse, error) {
	m.calls = append(m.calls, "UploadImage")
	return nil, errUnexpected
}
func (m *mockClient) GetUserData(context.Context) (*comppare.UserDataResponse, error) {
	m.calls = append(m.calls, "GetUserData")
	return nil, comppare.ErrNotAuthenticated
}
func (m *mockClient) ListPlans(context.Context) ([]comppare.Plan, error) {
	m.calls = append(m.calls, "ListPlans")
	if m.listPlans == nil {
		return nil, errUnexpected
	}
	return m.listPlans()
}
func (m *mockClient) ApplyCoupon(context.Context, string, int64) (*comppare.CouponResponse, error) {
	m.calls = append(m.calls, "ApplyCoupon")
	return nil, errUnexpected
}
func (m *mockClient) IsAuthenticated() bool          { return false }
func (m *mockClient) TokenExpiry() (time.Time, bool) { return time.Time{}, false }

func newFakeClient(t *testing.T) (*fakeapi.Server, *comppare.Client) {
	t.Helper()
	api := fakeapi.NewServer(nil,
		fakeapi.WithUser(fakeapi.User{
			ID: 7, FirstName: "Ana", LastName: "Lima", Email: "ana@example.com", Password: "s3nha", CPF: "12345678900",
		}),
		fakeapi.WithPlans(
			fakeapi.Plan{ID: 1, Name: "Gratuito", Price: decimal.Zero, FolderLimit: 3},
			fakeapi.Plan{ID: 2, Name: "Pro", Price: decimal.RequireFromString("29.9"), FolderLimit: 50,
				CouponCodes: map[string]int{"PROMO10": 10}},
		),
	)
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	return api, comppare.NewClient(server.URL)
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func TestDemoRun(t *testing.T) {
	api, client := newFakeClient(t)

	imagePath := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("\x89PNG\r\n\x1a\n"), 0644))

	var out bytes.Buffer
	demo := NewDemo(client, &out)
	demo.Now = fixedClock

	err := demo.Run(context.Background(), DemoOptions{
		Email:     "ana@example.com",
		Password:  "s3nha",
		ImagePath: imagePath,
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "OK: logged in")
	assert.Contains(t, output, "Token expires at:")
	assert.Contains(t, output, "Name: Ana Lima")
	assert.Contains(t, output, "Email: ana@example.com")
	assert.Contains(t, output, "Total folders: 0")
	assert.Contains(t, output, "folder created: Pasta Exemplo 2026-10-15 09:30:00")
	assert.Contains(t, output, "- Gratuito: R$ 0.00 (3 folders)")
	assert.Contains(t, output, "- Pro: R$ 29.90 (50 folders)")
	assert.Contains(t, output, "Image URL: https://fakeapi.local/photos/")
	assert.Contains(t, output, "OK: demo finished")

	require.NotNil(t, api.LastUpload())
	assert.Equal(t, "photo.png", api.LastUpload().FileName)
}

func TestDemoRunWithoutImageSkipsUpload(t *testing.T) {
	api, client := newFakeClient(t)

	var out bytes.Buffer
	demo := NewDemo(client, &out)
	demo.Now = fixedClock

	require.NoError(t, demo.Run(context.Background(), DemoOptions{Email: "ana@example.com", Password: "s3nha"}))
	assert.NotContains(t, out.String(), "Uploading image")
	assert.Nil(t, api.LastUpload())
}

func TestDemoRunStopsAtFirstError(t *testing.T) {
	_, client := newFakeClient(t)

	var out bytes.Buffer
	err := NewDemo(client, &out).Run(context.Background(), DemoOptions{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)

	httpErr, ok := comppare.IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 401, httpErr.StatusCode)

	output := out.String()
	assert.Contains(t, output, "Error: login: HTTP error 401")
	assert.NotContains(t, output, "Fetching user data")
}

func TestDemoRunStopsWhenUserDataFails(t *testing.T) {
	mock := &mockClient{
		login: func(string, string) (*comppare.LoginResponse, error) {
			return &comppare.LoginResponse{Token: "short"}, nil
		},
	}

	var out bytes.Buffer
	err := NewDemo(mock, &out).Run(context.Background(), DemoOptions{})

	assert.ErrorIs(t, err, comppare.ErrNotAuthenticated)
	assert.Equal(t, []string{"Login", "GetUserData"}, mock.calls)
	assert.Contains(t, out.String(), "Token: short")
}

func runInteractive(t *testing.T, client comppare.ClientAPI, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	require.NoError(t, NewInteractive(client, in, &out).Run(context.Background()))
	return out.String()
}

func TestInteractiveSession(t *testing.T) {
	_, client := newFakeClient(t)

	output := runInteractive(t, client,
		"2",                             // list folders before login
		"1", "ana@example.com", "s3nha", // login
		"3", "Obra", "",                 // top-level folder
		"3", "Fachada", "101",           // sub-folder
		"3", "Bad", "abc",               // invalid parent id
		"2",                             // list folders
		"4",                             // user data
		"5",                             // plans
		"7", "PROMO10", "2",             // coupon
		"7", "NOPE", "2",                // bad coupon
		"6", "101", "/does/not/exist.jpg",
		"9", // invalid option
		"0",
	)

	assert.Contains(t, output, "Error: not authenticated, login first")
	assert.Contains(t, output, "OK: logged in, token: ")
	assert.Contains(t, output, "OK: folder created: Obra (ID: 101)")
	assert.Contains(t, output, "OK: folder created: Fachada (ID: 102)")
	assert.Contains(t, output, `Error: invalid number "abc"`)
	assert.Contains(t, output, "Total folders: 1")
	assert.Contains(t, output, "- Obra (ID: 101)")
	assert.Contains(t, output, "  └── Fachada (ID: 102)")
	assert.Contains(t, output, "CPF: 12345678900")
	assert.Contains(t, output, "- Pro: R$ 29.90 (50 folders)")
	assert.Contains(t, output, "OK: coupon PROMO10 applied: 10% off")
	assert.Contains(t, output, "Error: HTTP error 404")
	assert.Contains(t, output, "Error: file not found: /does/not/exist.jpg")
	assert.Contains(t, output, `Error: invalid option "9"`)
	assert.Contains(t, output, "Bye!")
}

func TestInteractiveEndOfInput(t *testing.T) {
	mock := &mockClient{}

	output := runInteractive(t, mock, "1", "ana@example.com")
	assert.Empty(t, mock.calls, "login must not be attempted with a missing password")
	assert.NotContains(t, output, "Bye!")
}

func TestInteractiveContinuesAfterErrors(t *testing.T) {
	mock := &mockClient{
		listPlans: func() ([]comppare.Plan, error) {
			return []comppare.Plan{{Name: "Gratuito"}}, nil
		},
	}

	output := runInteractive(t, mock, "2", "5", "0")
	assert.Equal(t, []string{"ListFolders", "ListPlans"}, mock.calls)
	assert.Contains(t, output, "Error: unexpected call")
	assert.Contains(t, output, "- Gratuito: R$ 0.00")
}

func TestInteractiveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	mock := &mockClient{}
	err := NewInteractive(mock, strings.NewReader("1\nana@example.com\ns3nha\n"), &out).Run(ctx)
	assert.NoError(t, err)
	assert.Empty(t, mock.calls)
	assert.Contains(t, out.String(), "Bye!")
}

func TestInteractiveCancelWhileWaitingForInput(t *testing.T) {
	in, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- NewInteractive(&mockClient{}, in, &out).Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Bye!")
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after the context was cancelled")
	}
}

func TestTokenPreview(t *testing.T) {
	assert.Equal(t, "abc", tokenPreview("abc"))
	assert.Equal(t, "abcdefghijklmnopqrst...", tokenPreview("abcdefghijklmnopqrstuvwxyz"))
}
