package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/securo/securo-server/internal/logger"
	"github.com/securo/securo-server/internal/model"
)

// VaultService defines vault entry operations.
type VaultService interface {
	Add(ctx context.Context, params model.CreateEntryParams) (model.EntrySecret, error)
	Retrieve(ctx context.Context, masterPassword, service string) (model.EntrySecret, error)
	Rotate(ctx context.Context, masterPassword, service string) (string, error)
	Delete(ctx context.Context, masterPassword, service string) error
	List(ctx context.Context) ([]model.EntryMetadata, error)
	Search(ctx context.Context, query string) ([]model.EntryMetadata, error)
	Export(ctx context.Context, masterPassword string) ([]model.EntrySecret, error)
	Backup(ctx context.Context, masterPassword string) (string, error)
}

// Vault handles HTTP endpoints for vault entries.
type Vault struct {
	vaultService VaultService
	version      string
	logger       *logger.Logger
}

// NewVault creates a new Vault handler.
func NewVault(vaultService VaultService, version string, logger *logger.Logger) *Vault {
	return &Vault{
		vaultService: vaultService,
		version:      version,
		logger:       logger,
	}
}

type addRequest struct {
	Service  string `json:"service"`
	Email    string `json:"email"`
	Length   int    `json:"length"`
	Category string `json:"category"`
}

type secretResponse struct {
	Service  string `json:"service"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Category string `json:"category"`
	Strength int    `json:"strength"`
}

type metadataResponse struct {
	Service   string    `json:"service"`
	Email     string    `json:"email"`
	Category  string    `json:"category"`
	Strength  int       `json:"strength"`
	UpdatedAt time.Time `json:"updated_at"`
}

type rotateResponse struct {
	Service     string `json:"service"`
	NewPassword string `json:"new_password"`
}

type deleteResponse struct {
	Message string `json:"message"`
}

type backupResponse struct {
	Key string `json:"key"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Add generates and stores a credential and discloses the plaintext once.
func (h *Vault) Add(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Vault handler: processing add request")

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Service == "" {
		writeError(w, http.StatusBadRequest, "service is required")
		return
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
	}

	secret, err := h.vaultService.Add(r.Context(), model.CreateEntryParams{
		Service:  req.Service,
		Email:    req.Email,
		Length:   req.Length,
		Category: req.Category,
	})
	if err != nil {
		h.logger.Error("Vault handler: add failed",
			"service", req.Service,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: entry added",
		"service", secret.Service)

	writeJSON(w, http.StatusCreated, toSecretResponse(secret))
}

// Retrieve discloses the stored credential for a service.
func (h *Vault) Retrieve(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	h.logger.Debug("Vault handler: processing retrieve request",
		"service", service)

	if service == "" {
		writeError(w, http.StatusBadRequest, "service is required")
		return
	}

	secret, err := h.vaultService.Retrieve(r.Context(), r.URL.Query().Get("master_password"), service)
	if err != nil {
		h.logger.Error("Vault handler: retrieve failed",
			"service", service,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: entry retrieved",
		"service", service)

	writeJSON(w, http.StatusOK, toSecretResponse(secret))
}

// Rotate replaces the stored password for a service.
func (h *Vault) Rotate(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	h.logger.Debug("Vault handler: processing rotate request",
		"service", service)

	if service == "" {
		writeError(w, http.StatusBadRequest, "service is required")
		return
	}

	newPassword, err := h.vaultService.Rotate(r.Context(), r.URL.Query().Get("master_password"), service)
	if err != nil {
		h.logger.Error("Vault handler: rotate failed",
			"service", service,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: entry rotated",
		"service", service)

	writeJSON(w, http.StatusOK, rotateResponse{Service: service, NewPassword: newPassword})
}

// Delete removes the entry for a service.
func (h *Vault) Delete(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	h.logger.Debug("Vault handler: processing delete request",
		"service", service)

	if service == "" {
		writeError(w, http.StatusBadRequest, "service is required")
		return
	}

	if err := h.vaultService.Delete(r.Context(), r.URL.Query().Get("master_password"), service); err != nil {
		h.logger.Error("Vault handler: delete failed",
			"service", service,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: entry deleted",
		"service", service)

	writeJSON(w, http.StatusOK, deleteResponse{Message: "entry deleted"})
}

// List returns metadata for all entries.
func (h *Vault) List(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Vault handler: processing list request")

	items, err := h.vaultService.List(r.Context())
	if err != nil {
		h.logger.Error("Vault handler: list failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMetadataResponses(items))
}

// Search returns metadata for entries matching the query.
func (h *Vault) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	h.logger.Debug("Vault handler: processing search request",
		"query", query)

	items, err := h.vaultService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Vault handler: search failed",
			"query", query,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMetadataResponses(items))
}

// Export discloses every stored credential.
func (h *Vault) Export(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Vault handler: processing export request")

	secrets, err := h.vaultService.Export(r.Context(), r.URL.Query().Get("master_password"))
	if err != nil {
		h.logger.Error("Vault handler: export failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: vault exported",
		"entries", len(secrets))

	out := make([]secretResponse, 0, len(secrets))
	for _, s := range secrets {
		out = append(out, toSecretResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// Backup uploads an encrypted snapshot to object storage.
func (h *Vault) Backup(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Vault handler: processing backup request")

	key, err := h.vaultService.Backup(r.Context(), r.URL.Query().Get("master_password"))
	if err != nil {
		h.logger.Error("Vault handler: backup failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Vault handler: backup uploaded",
		"key", key)

	writeJSON(w, http.StatusCreated, backupResponse{Key: key})
}

// Health reports service liveness.
func (h *Vault) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.version})
}

func toSecretResponse(s model.EntrySecret) secretResponse {
	return secretResponse{
		Service:  s.Service,
		Email:    s.Email,
		Password: s.Password,
		Category: s.Category,
		Strength: s.Strength,
	}
}

func toMetadataResponses(items []model.EntryMetadata) []metadataResponse {
	out := make([]metadataResponse, 0, len(items))
	for _, item := range items {
		out = append(out, metadataResponse{
			Service:   item.Service,
			Email:     item.Email,
			Category:  item.Category,
			Strength:  item.Strength,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return out
}
