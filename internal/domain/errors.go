package domain

// 错误码，worker 根据错误码来决定重试还是退出
type ErrorCode string

const (
	ErrCodeVersionMismatch ErrorCode = "VERSION_MISMATCH"
	ErrCodeOverloaded      ErrorCode = "OVERLOADED"
	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// Server -> Worker: 错误响应
// 版本不匹配时必须同时携带双方的版本号，即使其中一方是 0
type ErrorResponse struct {
	Code          ErrorCode `json:"code"`
	Message       string    `json:"message"`
	ServerVersion uint32    `json:"serverVersion"`
	WorkerVersion uint32    `json:"workerVersion"`
}
