package dto

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListQuery holds the shared pagination parameters.
type ListQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize applies defaults and caps.
func (q *ListQuery) Normalize() {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}
