package comppare

import (
	"context"
	"time"
)

// ClientAPI defines the methods required to interact with the CompPare API.
// It mirrors the concrete client so it can be mocked in tests.
type ClientAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ListFolders(ctx context.Context) (*FolderListResponse, error)
	CreateFolder(ctx context.Context, name string, parentID *int64) (*CreateFolderResponse, error)
	UploadImage(ctx context.Context, folderID int64, filePath string) (*UploadImageResponse, error)
	GetUserData(ctx context.Context) (*UserDataResponse, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	ApplyCoupon(ctx context.Context, code string, planID int64) (*CouponResponse, error)
	IsAuthenticated() bool
	TokenExpiry() (time.Time, bool)
}
