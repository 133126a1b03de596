// Package fakeapi is an in-memory stand-in for the CompPare API. It serves
// the endpoints the client consumes so the client and the demo drivers can be
// exercised end to end in tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const tokenTTL = time.Hour

// User is an account known to the fake server
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	CPF       string
}

// Plan is a subscription plan served by /planos
type Plan struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	FolderLimit int
	CouponCodes map[string]int // code -> discount percent
}

// Upload records the last multipart upload received
type Upload struct {
	FolderID    int64
	FileName    string
	ContentType string
	Size        int64
}

type folder struct {
	id       int64
	ownerID  int64
	name     string
	parentID *int64
}

// Server represents the fake API server
type Server struct {
	logger *logrus.Logger
	router *gin.Engine
	secret []byte
	now    func() time.Time

	mu         sync.Mutex
	users      map[string]User
	plans      []Plan
	folders    []folder
	nextID     int64
	lastUpload *Upload
}

// Option customizes a Server in New.
type Option func(*Server)

// WithUser registers an account.
func WithUser(u User) Option {
	return func(s *Server) {
		s.users[u.Email] = u
	}
}

// WithPlans replaces the default plan catalog.
func WithPlans(plans ...Plan) Option {
	return func(s *Server) {
		s.plans = plans
	}
}

// WithClock overrides the clock used for token issuance.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a new fake API server with one default plan and no users
func NewServer(logger *logrus.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.ErrorLevel)
	}

	s := &Server{
		logger: logger,
		secret: []byte("fakeapi-secret"),
		now:    time.Now,
		users:  make(map[string]User),
		plans: []Plan{
			{ID: 1, Name: "Gratuito", Price: decimal.Zero, FolderLimit: 3},
		},
		nextID: 100,
	}

	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/usuarios/autenticar", s.login)
	router.GET("/planos", s.listPlans)
	router.POST("/cupons/aplicar", s.applyCoupon)

	authed := router.Group("/", s.requireToken)
	authed.GET("/pastas", s.listFolders)
	authed.POST("/pastas", s.createFolder)
	authed.POST("/photos/upload", s.uploadImage)
	authed.GET("/usuarios/dados", s.userData)

	s.router = router
	return s
}

// Handler returns the http.Handler serving the fake API
func (s *Server) Handler() http.Handler {
	return s.router
}

// LastUpload returns the last upload received, or nil
func (s *Server) LastUpload() *Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpload
}

func (s *Server) issueToken(u User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", u.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}
