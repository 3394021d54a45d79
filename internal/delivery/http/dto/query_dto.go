package dto

import "promptlab-api/internal/domain/entity"

// tipe data untuk response query
type QueryResponse struct {
	Success bool                `json:"success"`
	Data    *entity.QueryResult `json:"data"`
}

// tipe data untuk request cleanup
type CleanupRequest struct {
	OlderThanDays int `json:"olderThanDays"`
}

// tipe data untuk response cleanup
type CleanupResponse struct {
	Success bool   `json:"success"`
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
