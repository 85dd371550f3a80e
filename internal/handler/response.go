package handler

import "github.com/gin-gonic/gin"

// Status marks the envelope outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ContextRequestID is the gin context key carrying the request id. The
// request id middleware sets it; every envelope echoes it back so a client
// can quote the id when reporting a failed booking.
const ContextRequestID = "request_id"

// Response is the envelope every JSON reply uses.
type Response struct {
	Status    Status      `json:"status"`
	Message   string      `json:"message,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// OK writes a success envelope with the given status code.
func OK(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		Status:    StatusSuccess,
		RequestID: c.GetString(ContextRequestID),
		Data:      data,
	})
}

// Fail writes an error envelope with the given status code.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Status:    StatusError,
		RequestID: c.GetString(ContextRequestID),
		Message:   message,
	})
}

// AbortWith writes an error envelope and stops the handler chain. Used by
// middleware so no later handler runs after a rejection.
func AbortWith(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Status:    StatusError,
		RequestID: c.GetString(ContextRequestID),
		Message:   message,
	})
}
