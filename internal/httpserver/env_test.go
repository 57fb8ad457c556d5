package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
)

const testUserID uint = 1

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (f *fakePublisher) byTopic(topic string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, 0)
	for _, e := range f.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Cart    *CartHTTP
	Catalog *CatalogHTTP
	Auth    *AuthHTTP
	Events  *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	store := &repo.GormRepo{DB: db}
	events := &fakePublisher{}

	authService := &service.AuthService{
		Repo:          store,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Cart:    &CartHTTP{Svc: &service.CartService{Repo: store}, Events: events},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: store}, Events: events},
		Auth:    &AuthHTTP{Svc: authService, Events: events},
		Events:  events,
	}
}

// doJSON builds an echo context carrying the resolved test user, the way
// the auth middleware would for a real request.
func (env *testEnv) doJSON(method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set(authmw.ContextUserID, testUserID)
	c.Set(authmw.ContextRole, "user")
	return rec, c
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (env *testEnv) seedItem(name, price string, onSale bool, salePercent int) models.Item {
	env.T.Helper()

	item := models.Item{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		OnSale:      onSale,
		SalePercent: salePercent,
	}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return item
}
