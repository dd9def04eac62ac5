package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/motog-app/motog-app-be/api"
	"github.com/motog-app/motog-app-be/config"
	"github.com/motog-app/motog-app-be/databases"
	"github.com/motog-app/motog-app-be/mailer"
	"github.com/motog-app/motog-app-be/models"
	templates "github.com/motog-app/motog-app-be/templates/html"
)

// Token purposes carried in account-flow JWTs so a verify token can never
// reset a password and vice versa.
const (
	purposeVerifyEmail   = "verify_email"
	purposeResetPassword = "reset_password"

	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
)

// User exported for testing purposes
type User struct {
	DB     databases.UserDatabase
	Mailer mailer.Mailer
	Conf   config.Config
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func signedAccountToken(email, purpose string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     email,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("SECRET_KEY")))
}

// parseAccountToken returns the email carried by a valid token of the given
// purpose. Expiry is enforced by the parser.
func parseAccountToken(token, purpose string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("SECRET_KEY")), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return "", fmt.Errorf("token purpose %q does not match %q", p, purpose)
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return email, nil
}

func validPassword(p string) error {
	if len(p) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// UserCreateHandler registers a new account and sends the verification
// email. Registration succeeds even when the email cannot be sent.
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(req.Email, "@") {
		config.ErrorStatus("invalid email address", http.StatusBadRequest, w, fmt.Errorf("email %q is not valid", req.Email))
		return
	}
	if err := validPassword(req.Password); err != nil {
		config.ErrorStatus("invalid password", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if existing, _ := u.DB.FindOne(ctx, bson.M{"email": req.Email}); existing != nil {
		config.ErrorStatus("email already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate email"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	user := models.User{
		ID:              primitive.NewObjectID(),
		Email:           req.Email,
		HashedPassword:  string(hash),
		IsActive:        true,
		IsEmailVerified: false,
		CreatedAt:       primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	u.sendVerificationEmail(user.Email)

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

func (u User) sendVerificationEmail(email string) {
	token, err := signedAccountToken(email, purposeVerifyEmail, verifyTokenTTL)
	if err != nil {
		zap.S().Errorw("failed to sign verification token", "email", email, "error", err)
		return
	}
	link := fmt.Sprintf("%s/user/verify-email?token=%s", u.Conf.BaseURL, token)
	plain := fmt.Sprintf("Welcome to MotoG! Verify your email address by opening: %s", link)
	if err := u.Mailer.Send(email, "Verify your MotoG email", plain, templates.RenderVerifyEmail(link)); err != nil {
		zap.S().Warnw("failed to send verification email", "email", email, "error", err)
	}
}

// VerifyEmailHandler consumes the emailed token and marks the account
// verified. Re-verifying is a no-op.
func (u User) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		config.ErrorStatus("token is required", http.StatusBadRequest, w, fmt.Errorf("missing token query param"))
		return
	}
	email, err := parseAccountToken(token, purposeVerifyEmail)
	if err != nil {
		config.ErrorStatus("invalid or expired token", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if !user.IsEmailVerified {
		if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"is_email_verified": true}}); err != nil {
			config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
			return
		}
		user.IsEmailVerified = true
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ForgotPasswordHandler emails a reset link. The response does not reveal
// whether the address is registered.
func (u User) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if user, _ := u.DB.FindOne(ctx, bson.M{"email": req.Email}); user != nil && user.IsActive {
		token, err := signedAccountToken(user.Email, purposeResetPassword, resetTokenTTL)
		if err != nil {
			zap.S().Errorw("failed to sign reset token", "email", user.Email, "error", err)
		} else {
			link := fmt.Sprintf("%s/user/reset-password?token=%s", u.Conf.BaseURL, token)
			plain := fmt.Sprintf("Reset your MotoG password by opening: %s", link)
			if err := u.Mailer.Send(user.Email, "Reset your MotoG password", plain, templates.RenderPasswordReset(link)); err != nil {
				zap.S().Warnw("failed to send reset email", "email", user.Email, "error", err)
			}
		}
	}

	b, _ := json.Marshal(map[string]string{"detail": "if the email is registered, a reset link has been sent"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ResetPasswordHandler sets a new password from a valid reset token.
func (u User) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	email, err := parseAccountToken(req.Token, purposeResetPassword)
	if err != nil {
		config.ErrorStatus("invalid or expired token", http.StatusBadRequest, w, err)
		return
	}
	if err := validPassword(req.NewPassword); err != nil {
		config.ErrorStatus("invalid password", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	res, err := u.DB.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"hashed_password": string(hash)}})
	if err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, fmt.Errorf("no user for reset token"))
		return
	}

	b, _ := json.Marshal(map[string]string{"detail": "password updated"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ChangePasswordHandler rotates the authenticated user's password after
// checking the current one.
func (u User) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to identify caller", http.StatusUnauthorized, w, fmt.Errorf("no user in context"))
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validPassword(req.NewPassword); err != nil {
		config.ErrorStatus("invalid password", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		config.ErrorStatus("current password is incorrect", http.StatusBadRequest, w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"hashed_password": string(hash)}}); err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"detail": "password updated"})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
