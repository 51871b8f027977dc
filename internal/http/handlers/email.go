package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jmvaldez/inventario-be/internal/http/respond"
	"github.com/jmvaldez/inventario-be/internal/legacycsv"
	"github.com/jmvaldez/inventario-be/internal/models/dto"
)

// EmailHandler composes a subject/body for a row so the client can open a
// mailto link. Nothing is sent server-side.
type EmailHandler struct{}

// NewEmailHandler constructs the handler.
func NewEmailHandler() *EmailHandler {
	return &EmailHandler{}
}

// Handle builds the message from the row's well-known fields, going through
// the alias-aware lookup so mangled legacy labels still resolve.
func (h *EmailHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	get := func(label, def string) string {
		if v := legacycsv.ResolveValue(req.Row.Fields, label); v != "" {
			return v
		}
		return def
	}

	subject := fmt.Sprintf("Update regarding File %s", get("Orden", "Unknown"))
	body := fmt.Sprintf(`Hello,

Here are the details for the file:

Inspector: %s
Supervisor: %s
Division: %s
Section: %s

Status: %s

Regards,
Inventory System
`,
		get("INSPECTOR", "N/A"),
		get("SUPERVISOR", "N/A"),
		get("DIV", "N/A"),
		get("SECT", "N/A"),
		get("Estado", "Please review"),
	)

	respond.JSON(w, http.StatusOK, dto.EmailResponse{Subject: subject, Body: body})
}
