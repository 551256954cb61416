// Package dto defines data transfer objects for the Prokerala API responses.
package dto

// PanchangResponse represents the JSON response from the panchang/advanced endpoint.
type PanchangResponse struct {
	Status string `json:"status"`
	Data   struct {
		AuspiciousPeriod   []Period `json:"auspicious_period"`
		InauspiciousPeriod []Period `json:"inauspicious_period"`
	} `json:"data"`
}

// Period is a named muhurat with its time windows.
type Period struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Period []struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// ErrorResponse represents the error body returned on non-success status codes.
type ErrorResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
	Message string `json:"message,omitempty"`
}
