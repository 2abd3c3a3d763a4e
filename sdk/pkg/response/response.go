// Package response renders the uniform JSON envelope used by every API
// handler: requestId, code, msg and an optional data payload.
package response

import (
	"net/http"

	"github.com/eatwithme/etm-core/sdk/pkg/logger"
	"github.com/gin-gonic/gin"
)

type Response struct {
	RequestID string `json:"requestId,omitempty"`
	Code      int    `json:"code"`
	Msg       string `json:"msg,omitempty"`
}

type response struct {
	Response
	Data interface{} `json:"data,omitempty"`
}

type page struct {
	Count     int         `json:"count"`
	PageIndex int         `json:"pageIndex"`
	PageSize  int         `json:"pageSize"`
	List      interface{} `json:"list"`
}

// OK answers 200 with data.
func OK(c *gin.Context, data interface{}, msg string) {
	write(c, http.StatusOK, http.StatusOK, msg, data)
}

// Created answers 201 with data.
func Created(c *gin.Context, data interface{}, msg string) {
	write(c, http.StatusCreated, http.StatusCreated, msg, data)
}

// Error answers with the given HTTP status. The wire message is msg when set,
// otherwise the error text; err itself is only logged by the caller, never
// serialized, so internals and credentials stay out of responses.
func Error(c *gin.Context, code int, err error, msg string) {
	if msg == "" && err != nil {
		msg = err.Error()
	}
	write(c, code, code, msg, nil)
}

// PageOK answers 200 with a paginated list payload.
func PageOK(c *gin.Context, result interface{}, count, pageIndex, pageSize int, msg string) {
	write(c, http.StatusOK, http.StatusOK, msg, page{
		Count:     count,
		PageIndex: pageIndex,
		PageSize:  pageSize,
		List:      result,
	})
}

// Custom writes an arbitrary gin.H body with status 200, for endpoints that
// predate the envelope.
func Custom(c *gin.Context, data gin.H) {
	data["requestId"] = requestID(c)
	c.Set("result", data)
	c.AbortWithStatusJSON(http.StatusOK, data)
}

func write(c *gin.Context, status, code int, msg string, data interface{}) {
	r := response{
		Response: Response{
			RequestID: requestID(c),
			Code:      code,
			Msg:       msg,
		},
		Data: data,
	}
	c.Set("result", r)
	c.Set("status", code)
	c.AbortWithStatusJSON(status, r)
}

func requestID(c *gin.Context) string {
	if id, ok := c.Request.Context().Value(logger.TrafficKey).(string); ok {
		return id
	}
	return ""
}
