package dto

import (
	res "terminal-terrace/atlas-forum/packages/response"

	"github.com/gin-gonic/gin"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

// ErrorResponse 按业务错误码映射 HTTP 状态
func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(err.HTTPStatus(), res.ErrorResponse(err.Code, err.Msg))
}

// AbortWithError 写错误响应并中止后续处理器
func AbortWithError(c *gin.Context, err *res.BusinessError) {
	ErrorResponse(c, err)
	c.Abort()
}
