package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // campo → regla incumplida (VALIDATION)
}

// DeleteResponse cuerpo devuelto por los DELETE del ledger.
type DeleteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ListResponse envoltorio de listados del POS (items + total).
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse construye la respuesta; nunca serializa items como null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
