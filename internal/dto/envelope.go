package dto

// Response is the envelope every API answer is wrapped in.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage is a successful envelope carrying only a message.
func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail builds an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message, Error: message}
}
