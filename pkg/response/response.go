package response

// JSONResponse is the error envelope used by middleware and handlers
// that cannot go through the fres success helpers.
type JSONResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Error(code, message string, data interface{}) JSONResponse {
	return JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func Success(message string, data interface{}) JSONResponse {
	return JSONResponse{
		Code:    "OK",
		Message: message,
		Data:    data,
	}
}
