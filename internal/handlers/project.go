package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jtallman/projtrack/internal/middleware"
	"github.com/jtallman/projtrack/internal/models"
	"github.com/jtallman/projtrack/internal/repo"
)

type ProjectHandler struct {
	Repo *repo.ProjectRepo
}

//
// ==========================
// List Projects (newest first)
// ==========================
//

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projects, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("list projects failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]interface{}{"projects": projects}, http.StatusOK)
}

//
// ==========================
// Create Project
// ==========================
//

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description" validate:"required"`
		WebsiteURL  string `json:"websiteUrl" validate:"required"`
		Status      string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	// Owner is always the caller; a client-supplied owner field is ignored.
	status := input.Status
	if status == "" {
		status = models.StatusPlanning
	}

	project, err := h.Repo.Create(r.Context(), userID, input.Name, input.Description, input.WebsiteURL, status)
	if err != nil {
		slog.Error("create project failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]interface{}{"project": project}, http.StatusCreated)
}

//
// ==========================
// Get Project By ID
// ==========================
//

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.Repo.GetByID(r.Context(), id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get project failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]interface{}{"project": project}, http.StatusOK)
}

//
// ==========================
// Update Project (partial)
// ==========================
//

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	// Every field is optional; empty strings mean "leave unchanged".
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		WebsiteURL  string `json:"websiteUrl"`
		Status      string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err = h.Repo.Update(r.Context(), id, userID, input.Name, input.Description, input.WebsiteURL, input.Status)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("update project failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]string{"message": "Project updated successfully"}, http.StatusOK)
}

//
// ==========================
// Delete Project
// ==========================
//

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	err = h.Repo.Delete(r.Context(), id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete project failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, map[string]string{"message": "Project deleted successfully"}, http.StatusOK)
}
