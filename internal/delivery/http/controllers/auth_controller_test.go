package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	signUpErr       error
	loginErr        error
	requestCodeErr  error
	verifyCodeErr   error
	getByIDErr      error
	user            *domain.User
	lastEmail       string
	lastPassword    string
	lastName        string
	lastCode        string
	lastGetByID     string
	requestCodeCall int
}

func (f *fakeUserService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &domain.User{ID: "user-1", Email: email, Name: name, PasswordHash: "secret-hash"}, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "jwt-token", f.user, nil
}

func (f *fakeUserService) RequestLoginCode(ctx context.Context, email string) error {
	f.requestCodeCall++
	f.lastEmail = email
	return f.requestCodeErr
}

func (f *fakeUserService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	f.lastEmail, f.lastCode = email, code
	if f.verifyCodeErr != nil {
		return "", nil, f.verifyCodeErr
	}
	return "code-token", f.user, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.lastGetByID = id
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.user, nil
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"ada@example.com","password":"longenough","name":"Ada"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid email",
			body:           `{"email":"nope","password":"longenough","name":"Ada"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "short password",
			body:           `{"email":"ada@example.com","password":"short","name":"Ada"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password must be at least 8 characters",
		},
		{
			name:           "missing name",
			body:           `{"email":"ada@example.com","password":"longenough"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "name is required",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"ada@example.com","password":"longenough","name":"Ada"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "email already registered",
		},
		{
			name:           "service error",
			body:           `{"email":"ada@example.com","password":"longenough","name":"Ada"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{signUpErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.NotContains(t, rr.Body.String(), "secret-hash")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				var user domain.User
				decodeData(t, envelope, &user)
				assert.Equal(t, "user-1", user.ID)
				assert.Equal(t, "ada@example.com", user.Email)
				assert.Equal(t, "longenough", fake.lastPassword)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "ada@example.com", Name: "Ada"}

	t.Run("success", func(t *testing.T) {
		fake := &fakeUserService{user: user}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"ada@example.com","password":"pw"}`))
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got LoginResponse
		decodeData(t, decodeEnvelope(t, rr), &got)
		assert.Equal(t, "jwt-token", got.Token)
		assert.Equal(t, "Bearer", got.TokenType)
		require.NotNil(t, got.User)
		assert.Equal(t, "user-1", got.User.ID)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		fake := &fakeUserService{loginErr: domain.ErrInvalidCredentials}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"ada@example.com","password":"bad"}`))
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "unauthorized", envelope.Error.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		fake := &fakeUserService{}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"ada@example.com"}`))
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, fake.lastEmail, "service must not be called")
	})
}

func TestAuthController_ForgotPassword(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		fake := &fakeUserService{}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewBufferString(`{"email":"ada@example.com"}`))
		rr := httptest.NewRecorder()

		ctrl.ForgotPassword(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, 1, fake.requestCodeCall)
		assert.Equal(t, "ada@example.com", fake.lastEmail)
	})

	t.Run("invalid email", func(t *testing.T) {
		fake := &fakeUserService{}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewBufferString(`{"email":"ada"}`))
		rr := httptest.NewRecorder()

		ctrl.ForgotPassword(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, fake.requestCodeCall)
	})

	t.Run("mailer failure", func(t *testing.T) {
		fake := &fakeUserService{requestCodeErr: errors.New("ses unavailable")}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewBufferString(`{"email":"ada@example.com"}`))
		rr := httptest.NewRecorder()

		ctrl.ForgotPassword(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "ses unavailable")
	})
}

func TestAuthController_LoginWithCode(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "ada@example.com", Name: "Ada"}
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", body: `{"email":"ada@example.com","code":"123456"}`, wantStatus: http.StatusOK},
		{name: "short code", body: `{"email":"ada@example.com","code":"12345"}`, wantStatus: http.StatusBadRequest},
		{name: "non numeric code", body: `{"email":"ada@example.com","code":"12345a"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong code", body: `{"email":"ada@example.com","code":"654321"}`, fakeErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{user: user, verifyCodeErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login/code", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.LoginWithCode(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var got LoginResponse
				decodeData(t, decodeEnvelope(t, rr), &got)
				assert.Equal(t, "code-token", got.Token)
				assert.Equal(t, "123456", fake.lastCode)
			}
		})
	}
}
