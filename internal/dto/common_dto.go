package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries a per-field error map for 400/409 responses.
type ValidationErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func FieldErrors(fields map[string]string) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:   true,
		Message: "validation failed",
		Fields:  fields,
	}
}

func FieldConflict(field, msg string) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:   true,
		Message: "conflict",
		Fields:  map[string]string{field: msg},
	}
}

type StatusResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
