package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/config"
	"github.com/autospa/carwash-booking/internal/model"
	"github.com/autospa/carwash-booking/internal/repository"
)

func testConfig() config.Config {
	return config.Config{Env: "test", BcryptCost: 4}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*MockUserRepository)
		wantCode  int
	}{
		{
			name: "successful registration",
			body: `{"name":"Ana","email":"ana@x.com","password":"secret1","phone":"555-0101"}`,
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = 1
					}).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ana","email":"ana@x.com","password":"secret1"}`,
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(repository.ErrEmailExists)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:      "missing password",
			body:      `{"name":"Ana","email":"ana@x.com"}`,
			setupMock: func(m *MockUserRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)
			h := NewAuthHandler(testConfig(), users, auth.NewTokenService("test-secret"))

			c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/register", tt.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusCreated {
				assert.NotContains(t, rec.Body.String(), "password")
			}
			users.AssertExpectations(t)
		})
	}
}

func TestRegisterAlwaysClientRole(t *testing.T) {
	users := new(MockUserRepository)
	var created *model.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
			created.ID = 7
		}).Return(nil)
	h := NewAuthHandler(testConfig(), users, auth.NewTokenService("test-secret"))

	// A role in the body must not leak into the stored record.
	c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/register",
		`{"name":"Eve","email":"eve@x.com","password":"pw","role":"admin"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, model.RoleClient, created.Role)
	assert.NotEqual(t, "pw", created.PasswordHash)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1", 4)
	require.NoError(t, err)
	ana := &model.User{ID: 1, Email: "ana@x.com", Name: "Ana", PasswordHash: hash, Role: model.RoleClient}

	tokens := auth.NewTokenService("test-secret")

	t.Run("successful login issues verifiable token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "ana@x.com").Return(ana, nil)
		h := NewAuthHandler(testConfig(), users, tokens)

		c, rec := newJSONContext(t, http.MethodPost, "/v1/auth/login",
			`{"email":"ana@x.com","password":"secret1"}`)
		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResp
		require.NoError(t, jsonUnmarshal(rec.Body.Bytes(), &resp))
		ident, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), ident.UserID)
		assert.Equal(t, model.RoleClient, ident.Role)
	})

	t.Run("unknown email and wrong password look identical", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "ana@x.com").Return(ana, nil)
		users.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, repository.ErrNotFound)
		h := NewAuthHandler(testConfig(), users, tokens)

		c1, rec1 := newJSONContext(t, http.MethodPost, "/v1/auth/login",
			`{"email":"ana@x.com","password":"wrong"}`)
		require.NoError(t, h.Login(c1))
		c2, rec2 := newJSONContext(t, http.MethodPost, "/v1/auth/login",
			`{"email":"ghost@x.com","password":"whatever"}`)
		require.NoError(t, h.Login(c2))

		assert.Equal(t, http.StatusUnauthorized, rec1.Code)
		assert.Equal(t, http.StatusUnauthorized, rec2.Code)
		assert.Equal(t, rec1.Body.String(), rec2.Body.String())
	})
}
