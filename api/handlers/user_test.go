package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/motog-app/motog-app-be/api/handlers"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases/mocks"
	"github.com/motog-app/motog-app-be/models"
)

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(toEmail, subject, plainBody, htmlBody string) error {
	f.sent = append(f.sent, sentMail{to: toEmail, subject: subject})
	return f.err
}

func accountToken(t *testing.T, email, purpose string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":     email,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func TestUser_UserCreateHandler(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	mailer := &fakeMailer{}
	u := handlers.User{DB: userDB, Mailer: mailer, Conf: config.Config{BaseURL: "https://api.motog.app"}}

	body := `{"email": "Buyer@Example.com", "password": "hunter2hunter2"}`
	req := httptest.NewRequest("POST", "/api/v1/user/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "buyer@example.com", created.Email)
	assert.False(t, created.IsEmailVerified)

	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].to)
}

func TestUser_UserCreateHandlerMailFailureStillRegisters(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	userDB.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	u := handlers.User{DB: userDB, Mailer: &fakeMailer{err: errors.New("sendgrid is down")}}

	body := `{"email": "buyer@example.com", "password": "hunter2hunter2"}`
	req := httptest.NewRequest("POST", "/api/v1/user/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestUser_UserCreateHandlerDuplicateEmail(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{ID: testUserID, Email: "buyer@example.com"}, nil)

	u := handlers.User{DB: userDB, Mailer: &fakeMailer{}}

	body := `{"email": "buyer@example.com", "password": "hunter2hunter2"}`
	req := httptest.NewRequest("POST", "/api/v1/user/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already registered")
}

func TestUser_UserCreateHandlerRejectsShortPassword(t *testing.T) {
	u := handlers.User{}

	body := `{"email": "buyer@example.com", "password": "short"}`
	req := httptest.NewRequest("POST", "/api/v1/user/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_VerifyEmailHandler(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{ID: testUserID, Email: "buyer@example.com"}, nil)
	userDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	u := handlers.User{DB: userDB}

	token := accountToken(t, "buyer@example.com", "verify_email", time.Hour)
	req := httptest.NewRequest("GET", "/api/v1/user/verify-email?token="+token, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.VerifyEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var verified models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &verified))
	assert.True(t, verified.IsEmailVerified)
	userDB.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_VerifyEmailHandlerRejectsWrongPurpose(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	u := handlers.User{}

	token := accountToken(t, "buyer@example.com", "reset_password", time.Hour)
	req := httptest.NewRequest("GET", "/api/v1/user/verify-email?token="+token, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.VerifyEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_VerifyEmailHandlerRejectsExpiredToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	u := handlers.User{}

	token := accountToken(t, "buyer@example.com", "verify_email", -time.Minute)
	req := httptest.NewRequest("GET", "/api/v1/user/verify-email?token="+token, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.VerifyEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_ForgotPasswordHandlerHidesUnknownEmail(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	mailer := &fakeMailer{}
	u := handlers.User{DB: userDB, Mailer: mailer}

	body := `{"email": "nobody@example.com"}`
	req := httptest.NewRequest("POST", "/api/v1/user/forgot-password", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ForgotPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, mailer.sent)
}

func TestUser_ResetPasswordHandler(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	userDB := &mocks.UserDatabase{}
	userDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	u := handlers.User{DB: userDB}

	token := accountToken(t, "buyer@example.com", "reset_password", time.Hour)
	body := `{"token": "` + token + `", "newPassword": "anewpassword"}`
	req := httptest.NewRequest("POST", "/api/v1/user/reset-password", strings.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUser_ChangePasswordHandlerWrongCurrentPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("the-real-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{ID: testUserID, Email: "buyer@example.com", HashedPassword: string(hash)}, nil)

	u := handlers.User{DB: userDB}

	body := `{"currentPassword": "not-the-password", "newPassword": "anewpassword"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/user/change-password", strings.NewReader(body)), testUserID)
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ChangePasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "current password is incorrect")
	userDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
