package server

import "github.com/gin-gonic/gin"

// errorBody: 실패 응답의 error 객체
type errorBody struct {
	Code    *int   `json:"code"`
	Message string `json:"message"`
}

// envelope: 프론트엔드와 합의된 공통 응답 규격
// 성공 시 error는 null, 실패 시 data는 null이다.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Error   *errorBody `json:"error"`
}

// respond: 성공 응답을 공통 규격으로 내보낸다.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// respondError: 실패 응답을 공통 규격으로 내보낸다. code는 HTTP 상태와 같다.
func respondError(c *gin.Context, status int, message string) {
	code := status
	c.JSON(status, envelope{Success: false, Error: &errorBody{Code: &code, Message: message}})
}
