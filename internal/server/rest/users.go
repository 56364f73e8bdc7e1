package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateIncomeRequest struct {
	Income float64 `json:"income"`
}

type verifyEmailRequest struct {
	VerificationCode string `json:"verificationCode"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, "Error creating user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"user":    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, "Error finding user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := s.users.ChangePassword(r.Context(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, "Password change failed", err)
		return
	}

	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	var req updateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.users.UpdateIncome(r.Context(), claims.UserID, req.Income)
	if err != nil {
		writeError(w, "Income update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User income updated",
		"user":    user,
	})
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	income, err := s.users.GetIncome(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, "Error fetching income", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"income": income})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := s.users.VerifyEmail(r.Context(), claims.UserID, req.VerificationCode); err != nil {
		writeError(w, "Email verification failed", err)
		return
	}

	writeMessage(w, http.StatusOK, "Email verified successfully")
}

func (s *Server) handleResendVerificationCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	if err := s.users.ResendVerificationCode(r.Context(), claims.UserID); err != nil {
		writeError(w, "Failed to resend verification email", err)
		return
	}

	writeMessage(w, http.StatusOK, "Verification email sent successfully")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID != claims.UserID {
		writeMessage(w, http.StatusForbidden, "Cannot delete another user's account")
		return
	}

	if err := s.users.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, "Error deleting user", err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted")
}
