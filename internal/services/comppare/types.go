package comppare

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UserProfile represents a CompPare user
type UserProfile struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"primeiroNome"`
	LastName  string  `json:"sobrenome"`
	Nickname  *string `json:"apelido"`
	Email     string  `json:"email"`
	CPF       string  `json:"cpf"`
	Phone     *string `json:"telefone"`
	Status    *int    `json:"status"`
	PlanID    *int64  `json:"idPlano"`
	ProfileID *int64  `json:"idPerfil"`
	Points    *int64  `json:"pontos"`
}

// FullName joins first and last name
func (u *UserProfile) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Image represents an image stored inside a folder
type Image struct {
	ID      int64   `json:"id"`
	Path    string  `json:"path"`
	TakenAt *string `json:"taken_at"`
}

// Folder represents a folder. Folders nest through Subfolders without a
// depth limit.
type Folder struct {
	ID         int64    `json:"id"`
	Name       string   `json:"nomePasta"`
	Path       *string  `json:"path"`
	ParentID   *int64   `json:"idPastaPai"`
	Subfolders []Folder `json:"subpastas"`
	Images     []Image  `json:"imagens"`
}

// UnmarshalJSON accepts the folder name under either "nomePasta" or "nome",
// the listing and login endpoints disagree on the key.
func (f *Folder) UnmarshalJSON(data []byte) error {
	type folderAlias Folder
	aux := struct {
		*folderAlias
		Nome *string `json:"nome"`
	}{folderAlias: (*folderAlias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if f.Name == "" && aux.Nome != nil {
		f.Name = *aux.Nome
	}
	return nil
}

// LoginResponse represents the API response for authentication
type LoginResponse struct {
	CodRetorno int          `json:"codRetorno"`
	Message    string       `json:"message"`
	Token      string       `json:"token"`
	Data       *UserProfile `json:"dados"`
	Folders    []Folder     `json:"pastas"`
}

// FolderListResponse represents the API response for listing folders
type FolderListResponse struct {
	Folders []Folder `json:"pastas"`
}

// Count returns the number of folders at every level
func (r *FolderListResponse) Count() int {
	var count func([]Folder) int
	count = func(folders []Folder) int {
		n := len(folders)
		for _, f := range folders {
			n += count(f.Subfolders)
		}
		return n
	}
	return count(r.Folders)
}

// CreateFolderRequest is the JSON body sent when creating a folder
type CreateFolderRequest struct {
	Name     string `json:"nomePasta"`
	ParentID *int64 `json:"idPastaPai,omitempty"`
}

// CreateFolderResponse represents the API response for folder creation
type CreateFolderResponse struct {
	CodRetorno int    `json:"codRetorno"`
	Message    string `json:"message"`
	Folder     Folder `json:"pasta"`
}

// Photo represents an uploaded image
type Photo struct {
	ID       int64   `json:"id"`
	URL      string  `json:"url"`
	Path     *string `json:"path"`
	FolderID *int64  `json:"pasta_id"`
	TakenAt  *string `json:"taken_at"`
}

// UploadImageResponse represents the API response for an image upload
type UploadImageResponse struct {
	CodRetorno int    `json:"codRetorno"`
	Message    string `json:"message"`
	Photo      Photo  `json:"photo"`
}

// UserDataResponse represents the API response for the authenticated user
type UserDataResponse struct {
	User UserProfile `json:"user"`
}

// Plan represents a subscription plan
type Plan struct {
	ID               int64           `json:"id"`
	Name             string          `json:"nome"`
	Description      *string         `json:"descricao"`
	Price            decimal.Decimal `json:"valor"`
	FolderLimit      *int            `json:"limitePastas"`
	FolderQuota      *int            `json:"quantidadePastas"`
	PhotoQuota       *int            `json:"quantidadeFotos"`
	TagQuota         *int            `json:"quantidadeTags"`
	InviteQuota      *int            `json:"quantidadeConvites"`
	FreeDays         *int            `json:"tempoGratuidade"`
	BillingFrequency *string         `json:"frequenciaCobranca"`
	Status           *int            `json:"status"`
}

// IsFree returns true if the plan costs nothing
func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}

// Folders returns the folder allowance, preferring limitePastas over
// quantidadePastas
func (p *Plan) Folders() (int, bool) {
	if p.FolderLimit != nil {
		return *p.FolderLimit, true
	}
	if p.FolderQuota != nil {
		return *p.FolderQuota, true
	}
	return 0, false
}

// ApplyCouponRequest is the JSON body sent when applying a coupon
type ApplyCouponRequest struct {
	Code   string `json:"codigo"`
	PlanID int64  `json:"idPlano"`
}

// Coupon represents a discount coupon
type Coupon struct {
	ID              int64   `json:"id"`
	Code            string  `json:"cupom"`
	DiscountPercent *int    `json:"percentualDesconto"`
	ExpiresAt       *string `json:"dataExpiracao"`
}

// CouponResponse represents the API response for applying a coupon
type CouponResponse struct {
	CodRetorno int     `json:"codRetorno"`
	Message    string  `json:"message"`
	Data       *Coupon `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}
