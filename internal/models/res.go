package models

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type ApiResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ListResponse struct {
	Status     string       `json:"status"`
	Strategy   string       `json:"strategy,omitempty"`
	City       string       `json:"city,omitempty"`
	RadiusKm   float64      `json:"radius_km,omitempty"`
	Results    int          `json:"results"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
	Events     []*EventView `json:"events"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Status:  StatusSuccess,
		Data:    data,
		Message: message,
	}
}

// ErrorResponse uses "fail" for client errors and "error" for server errors.
func ErrorResponse(httpStatus int, message string) ApiResponse {
	status := StatusFail
	if httpStatus >= 500 {
		status = StatusError
	}
	return ApiResponse{
		Status:  status,
		Message: message,
	}
}

func PaginatedResponse(page *EventPage) ListResponse {
	return ListResponse{
		Status:     StatusSuccess,
		Results:    len(page.Events),
		Total:      page.Total,
		Page:       page.Pagination.Page,
		Limit:      page.Pagination.Limit,
		TotalPages: page.TotalPages(),
		Events:     page.Events,
	}
}
