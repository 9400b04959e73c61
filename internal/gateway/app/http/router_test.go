package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authservices "employeehub/internal/auth/adapters/services"
	"employeehub/internal/auth/adapters/throttle"
	authapp "employeehub/internal/auth/app"
	authentities "employeehub/internal/auth/domain/entities"
	"employeehub/internal/config"
	"employeehub/internal/employees/adapters/storage"
	empapp "employeehub/internal/employees/app"
	"employeehub/internal/employees/domain/entities"
	"employeehub/internal/employees/ports/api"
	ports "employeehub/internal/employees/ports/storage"
	httpserver "employeehub/internal/gateway/app/http"
)

// memUsers - хранилище пользователей в памяти.
type memUsers struct {
	mu    sync.Mutex
	users []*authentities.User
}

func (m *memUsers) Create(_ context.Context, user *authentities.User) (*authentities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, authentities.ErrUsernameTaken
		}
		if u.SerialNumber == user.SerialNumber {
			return nil, authentities.ErrSerialNumberTaken
		}
	}
	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	m.users = append(m.users, &created)
	return &created, nil
}

func (m *memUsers) find(match func(*authentities.User) bool) (*authentities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, authentities.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*authentities.User, error) {
	return m.find(func(u *authentities.User) bool { return u.ID == id })
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*authentities.User, error) {
	return m.find(func(u *authentities.User) bool { return u.Username == username })
}

func (m *memUsers) FindBySerialNumber(_ context.Context, sno int64) (*authentities.User, error) {
	return m.find(func(u *authentities.User) bool { return u.SerialNumber == sno })
}

// memEmployees - хранилище записей в памяти без поиска.
type memEmployees struct {
	mu        sync.Mutex
	employees map[string]*entities.Employee
}

func newMemEmployees() *memEmployees {
	return &memEmployees{employees: make(map[string]*entities.Employee)}
}

func (m *memEmployees) Create(_ context.Context, e *entities.Employee) (*entities.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.employees {
		if existing.Email == e.Email {
			return nil, entities.ErrEmailTaken
		}
	}
	stored := *e
	m.employees[e.ID] = &stored
	return e, nil
}

func (m *memEmployees) FindByID(_ context.Context, id string) (*entities.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		found := *e
		return &found, nil
	}
	return nil, entities.ErrEmployeeNotFound
}

func (m *memEmployees) FindByEmail(_ context.Context, email string) (*entities.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Email == email {
			found := *e
			return &found, nil
		}
	}
	return nil, entities.ErrEmployeeNotFound
}

func (m *memEmployees) List(_ context.Context, q entities.ListQuery) ([]*entities.Employee, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*entities.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []*entities.Employee{}, total, nil
	}
	end := min(q.Offset+q.Limit, len(all))
	return all[q.Offset:end], total, nil
}

func (m *memEmployees) Update(_ context.Context, e *entities.Employee) (*entities.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[e.ID]; !ok {
		return nil, entities.ErrEmployeeNotFound
	}
	stored := *e
	m.employees[e.ID] = &stored
	return e, nil
}

func (m *memEmployees) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return entities.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

// MockEmployeeUseCase падает на любом вызове: guard не должен пропускать запрос.
type MockEmployeeUseCase struct {
	mock.Mock
}

func (m *MockEmployeeUseCase) Create(ctx context.Context, input api.EmployeeInput, image *ports.Image) (*entities.Employee, error) {
	m.Called(ctx, input, image)
	return nil, nil
}

func (m *MockEmployeeUseCase) List(ctx context.Context, page, limit int, search string) (*entities.Page, error) {
	m.Called(ctx, page, limit, search)
	return nil, nil
}

func (m *MockEmployeeUseCase) Get(ctx context.Context, id string) (*entities.Employee, error) {
	m.Called(ctx, id)
	return nil, nil
}

func (m *MockEmployeeUseCase) Update(ctx context.Context, id string, input api.EmployeeInput, image *ports.Image) (*entities.Employee, error) {
	m.Called(ctx, id, input, image)
	return nil, nil
}

func (m *MockEmployeeUseCase) Delete(ctx context.Context, id string) error {
	m.Called(ctx, id)
	return nil
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type testServer struct {
	app       *fiber.App
	employees *memEmployees
	health    *MockHealthChecker
	uploads   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	uploads := t.TempDir()
	images, err := storage.NewLocalStorage(ctx, uploads, "/uploads")
	require.NoError(t, err)

	factory := authservices.NewServiceFactory("router-test-secret", time.Hour, 4)
	authUseCase := authapp.NewAuthUseCase(&memUsers{}, factory.PasswordService(), factory.TokenService(), throttle.NewNoopThrottle())

	employeeRepo := newMemEmployees()
	health := new(MockHealthChecker)

	app := httpserver.NewApp(&config.HTTPConfig{
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		BodyLimit:    1 << 20,
	})
	httpserver.SetupRouter(app, httpserver.Dependencies{
		Auth:          authUseCase,
		Employees:     empapp.NewEmployeeUseCase(employeeRepo, images),
		Health:        health,
		CORSOrigins:   []string{"http://localhost:5173"},
		UploadsDir:    uploads,
		UploadsPrefix: "/uploads",
	})

	return &testServer{app: app, employees: employeeRepo, health: health, uploads: uploads}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, map[string]any, http.Header) {
	t.Helper()
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body, resp.Header
}

func jsonRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()

	status, body, _ := s.do(t, jsonRequest(fiber.MethodPost, "/api/auth/register",
		`{"username":"admin","password":"s3cret","sno":"1001"}`, ""))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "User created successfully", body["message"])

	status, body, _ = s.do(t, jsonRequest(fiber.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"s3cret"}`, ""))
	require.Equal(t, fiber.StatusOK, status)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1001), user["sno"])

	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func createRequest(t *testing.T, token string, jpegContent []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", "Asha Rao"},
		{"email", "Asha@Example.com"},
		{"mobile", "9876543210"},
		{"designation", "HR"},
		{"gender", "F"},
		{"course", "MCA"},
		{"course", "BSC"},
	}
	for _, f := range fields {
		require.NoError(t, writer.WriteField(f[0], f[1]))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="asha.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(jpegContent)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/employees", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestEmployeeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)
	jpegContent := []byte("\xff\xd8\xff\xe0fake-jpeg")

	status, created, _ := srv.do(t, createRequest(t, token, jpegContent))
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "asha@example.com", created["email"])
	assert.Equal(t, []any{"MCA", "BSC"}, created["course"])

	id, _ := created["id"].(string)
	image, _ := created["image"].(string)
	require.NotEmpty(t, id)
	require.True(t, strings.HasPrefix(image, "/uploads/"))
	assert.True(t, strings.HasSuffix(image, ".jpg"))

	status, fetched, _ := srv.do(t, jsonRequest(fiber.MethodGet, "/api/employees/"+id, "", token))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Asha Rao", fetched["name"])

	resp, err := srv.app.Test(httptest.NewRequest(fiber.MethodGet, image, nil))
	require.NoError(t, err)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, jpegContent, served)

	status, page, _ := srv.do(t, jsonRequest(fiber.MethodGet, "/api/employees?page=1&limit=5", "", token))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(1), page["totalPages"])
	assert.Equal(t, float64(5), page["limit"])

	status, capped, _ := srv.do(t, jsonRequest(fiber.MethodGet, "/api/employees?page=1&limit=1000", "", token))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(100), capped["limit"])

	status, updated, _ := srv.do(t, jsonRequest(fiber.MethodPut, "/api/employees/"+id, `{"name":"Xavier"}`, token))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Xavier", updated["name"])
	assert.Equal(t, "asha@example.com", updated["email"])

	status, body, _ := srv.do(t, jsonRequest(fiber.MethodPut, "/api/employees/"+id, `{"name":"X"}`, token))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Name must be at least 2 characters", body["message"])

	status, body, _ = srv.do(t, jsonRequest(fiber.MethodDelete, "/api/employees/"+id, "", token))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Employee deleted successfully", body["message"])

	status, body, _ = srv.do(t, jsonRequest(fiber.MethodGet, "/api/employees/"+id, "", token))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Employee not found", body["message"])

	status, _, _ = srv.do(t, jsonRequest(fiber.MethodGet, "/api/employees/not-a-uuid", "", token))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGuardRejectsBeforeHandler(t *testing.T) {
	factory := authservices.NewServiceFactory("router-test-secret", time.Hour, 4)
	authUseCase := authapp.NewAuthUseCase(&memUsers{}, factory.PasswordService(), factory.TokenService(), throttle.NewNoopThrottle())
	useCase := new(MockEmployeeUseCase)

	app := httpserver.NewApp(&config.HTTPConfig{BodyLimit: 1 << 20})
	httpserver.SetupRouter(app, httpserver.Dependencies{
		Auth:        authUseCase,
		Employees:   useCase,
		CORSOrigins: []string{"http://localhost:5173"},
	})
	srv := &testServer{app: app}

	tests := []struct {
		name    string
		method  string
		header  string
		wantMsg string
	}{
		{"no header", fiber.MethodGet, "", "No token provided"},
		{"basic scheme", fiber.MethodPost, "Basic abc", "Invalid token"},
		{"garbage token", fiber.MethodDelete, "Bearer not.a.jwt", "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/employees"
			if tt.method == fiber.MethodDelete {
				target += "/" + uuid.NewString()
			}
			req := httptest.NewRequest(tt.method, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			status, body, _ := srv.do(t, req)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
	useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	useCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	useCase.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	status, wrongPassword, _ := srv.do(t, jsonRequest(fiber.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"nope"}`, ""))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, unknownUser, _ := srv.do(t, jsonRequest(fiber.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"nope"}`, ""))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, wrongPassword, unknownUser)

	status, body, _ := srv.do(t, jsonRequest(fiber.MethodPost, "/api/auth/register",
		`{"username":"admin","password":"other","sno":1002}`, ""))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username already exists", body["message"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	srv.health.On("Ping", mock.Anything).Return(nil).Once()
	srv.health.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

	status, body, _ := srv.do(t, httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, _, _ = srv.do(t, httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	srv.health.AssertExpectations(t)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	status, body, headers := srv.do(t, httptest.NewRequest(fiber.MethodGet, "/nope", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(fiber.MethodOptions, "/api/employees", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", fiber.MethodPost)

	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestRouterWithoutCORSOrigins(t *testing.T) {
	factory := authservices.NewServiceFactory("router-test-secret", time.Hour, 4)
	authUseCase := authapp.NewAuthUseCase(&memUsers{}, factory.PasswordService(), factory.TokenService(), throttle.NewNoopThrottle())

	app := httpserver.NewApp(&config.HTTPConfig{BodyLimit: 1 << 20})
	assert.NotPanics(t, func() {
		httpserver.SetupRouter(app, httpserver.Dependencies{Auth: authUseCase, Employees: new(MockEmployeeUseCase)})
	})

	req := httptest.NewRequest(fiber.MethodGet, "/api/employees", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
