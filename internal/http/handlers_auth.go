package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// handleRegister creates an unverified account and queues the OTP mail.
// The account stays unusable until the code is confirmed. Registering
// again while unverified refreshes the credentials and issues a new
// code, so an expired OTP never strands the signup.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx := r.Context()
	existing, lookupErr := s.store.UserByEmail(ctx, req.Email)
	if lookupErr != nil && !errors.Is(lookupErr, core.ErrNotFound) {
		slog.ErrorContext(ctx, "User lookup failed", applog.FieldError, lookupErr)
		respondError(w, http.StatusInternalServerError, "Signup failed")
		return
	}
	if lookupErr == nil && existing.Verified {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if lookupErr == nil {
		// A pending signup already exists, possibly with an expired
		// code. Take the latest password and fall through to a fresh
		// OTP.
		if err := s.store.UpdatePassword(ctx, existing.ID, hash); err != nil {
			slog.ErrorContext(ctx, "Password update failed", applog.FieldError, err, applog.FieldUserID, existing.ID)
			respondError(w, http.StatusInternalServerError, "Signup failed")
			return
		}
	} else {
		user := core.User{
			ID:           uuid.NewString(),
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := user.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			slog.ErrorContext(ctx, "User creation failed", applog.FieldError, err, applog.FieldEmail, req.Email)
			respondError(w, http.StatusInternalServerError, "Signup failed")
			return
		}
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		slog.ErrorContext(ctx, "OTP generation failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Signup failed")
		return
	}
	if err := s.store.SaveOTP(ctx, req.Email, code, time.Now().UTC().Add(s.otpTTL)); err != nil {
		slog.ErrorContext(ctx, "OTP save failed", applog.FieldError, err, applog.FieldEmail, req.Email)
		respondError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	if s.queue == nil {
		slog.ErrorContext(ctx, "No job queue configured, cannot deliver OTP", applog.FieldEmail, req.Email)
		respondError(w, http.StatusInternalServerError, "Signup failed")
		return
	}
	if err := s.queue.Publish(ctx, amqp.NewOTPMailJob(req.Email, req.Name, code)); err != nil {
		slog.ErrorContext(ctx, "OTP job publish failed", applog.FieldError, err, applog.FieldEmail, req.Email)
		respondError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":     "OTP sent to email. Please verify to complete signup.",
		"requiresOTP": true,
		"email":       req.Email,
	})
}

// handleVerifyOTP consumes the emailed code, marks the account verified
// and opens a session.
func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.OTP == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx := r.Context()
	ok, err := s.store.ConsumeOTP(ctx, req.Email, req.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "OTP lookup failed", applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "OTP verification failed")
		return
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, http.StatusBadRequest, "No pending signup for this email")
		return
	}
	if err := s.store.MarkVerified(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "Mark verified failed", applog.FieldError, err, applog.FieldUserID, user.ID)
		respondError(w, http.StatusInternalServerError, "OTP verification failed")
		return
	}
	user.Verified = true

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Token issue failed", applog.FieldError, err, applog.FieldUserID, user.ID)
		respondError(w, http.StatusInternalServerError, "OTP verification failed")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// handleProfile returns the account record for the session subject.
// The path ID must match the authenticated user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	if r.PathValue("id") != userID {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.ErrorContext(ctx, "Profile lookup failed", applog.FieldError, err, applog.FieldUserID, userID)
		respondError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing email or password")
		return
	}

	ctx := r.Context()
	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.Verified {
		respondError(w, http.StatusUnauthorized, "Email not verified")
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Token issue failed", applog.FieldError, err, applog.FieldUserID, user.ID)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}
