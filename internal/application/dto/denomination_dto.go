package dto

// CreateDenominationRequest body para POST /api/denominations.
type CreateDenominationRequest struct {
	Value  int64  `json:"value"`
	Status string `json:"status,omitempty"`
}

// UpdateDenominationRequest body para PUT /api/denominations/:id.
type UpdateDenominationRequest struct {
	Value  int64  `json:"value"`
	Status string `json:"status"`
}

// DenominationResponse denominación en respuestas.
type DenominationResponse struct {
	ID        string `json:"id"`
	Value     int64  `json:"value"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}
