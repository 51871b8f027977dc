package dto

import "github.com/jmvaldez/inventario-be/internal/models"

// Mutation kinds shared by the row and column endpoints.
const (
	MutationAdd    = "ADD"
	MutationUpdate = "UPDATE"
	MutationDelete = "DELETE"
)

type DataResponse struct {
	Columns   []models.Column `json:"columns"`
	Inventory []models.Row    `json:"inventory"`
}

type RowMutationRequest struct {
	Type string     `json:"type"`
	Row  models.Row `json:"row"`
}

type RowMutationResponse struct {
	Success bool        `json:"success"`
	Row     *models.Row `json:"row,omitempty"`
}

type ColumnMutationRequest struct {
	Type   string        `json:"type"`
	Column models.Column `json:"column"`
}

type ColumnMutationResponse struct {
	Success bool            `json:"success"`
	Columns []models.Column `json:"columns"`
}

type EmailRequest struct {
	Row models.Row `json:"row"`
}

type EmailResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SaveGridResponse struct {
	Success bool `json:"success"`
}
