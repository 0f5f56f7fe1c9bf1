package response

// Response is the envelope every Optiven endpoint returns. Errors carry a
// detail string the storefront clients parse; successes carry the payload
// under data.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// Success wraps a payload in the standard envelope.
func Success(code int, data interface{}) Response {
	return Response{
		Success: true,
		Code:    code,
		Data:    data,
	}
}

// Error wraps an error detail in the standard envelope.
func Error(code int, detail string) Response {
	return Response{
		Code:   code,
		Detail: detail,
	}
}
