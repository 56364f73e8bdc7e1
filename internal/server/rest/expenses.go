package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
)

type addExpensesRequest struct {
	Expenses []models.ExpenseInput `json:"expenses"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	var input models.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	expense, err := s.expenses.AddExpense(r.Context(), claims.UserID, input)
	if err != nil {
		writeError(w, "Error adding expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Expense added",
		"expense": expense,
	})
}

func (s *Server) handleAddExpenses(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	var req addExpensesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := s.expenses.AddExpenses(r.Context(), claims.UserID, req.Expenses)
	if err != nil {
		writeError(w, "Error adding expenses", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Expenses added",
		"expenses": created,
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	expenses, err := s.expenses.ListExpenses(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, "Error fetching expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	claims, ok := identityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
		return
	}

	expenseID := chi.URLParam(r, "expenseId")
	if err := s.expenses.DeleteExpense(r.Context(), expenseID, claims.UserID); err != nil {
		writeError(w, "Error deleting expense", err)
		return
	}

	writeMessage(w, http.StatusOK, "Expense deleted")
}
