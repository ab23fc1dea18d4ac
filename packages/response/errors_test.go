package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ResponseCode
		want int
	}{
		{name: "参数错误", code: InvalidParameter, want: http.StatusBadRequest},
		{name: "解析错误", code: ParseError, want: http.StatusBadRequest},
		{name: "未登录", code: Unauthorized, want: http.StatusUnauthorized},
		{name: "不存在", code: NotFound, want: http.StatusNotFound},
		{name: "上游失败", code: Upstream, want: http.StatusBadGateway},
		{name: "默认失败", code: Fail, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBusinessError(WithErrorCode(tt.code))
			assert.Equal(t, tt.want, err.HTTPStatus())
		})
	}
}

func TestAsBusinessError(t *testing.T) {
	inner := NewBusinessError(WithErrorCode(NotFound), WithErrorMessage("missing"))
	wrapped := fmt.Errorf("lookup: %w", inner)

	assert.Same(t, inner, AsBusinessError(wrapped))

	plain := AsBusinessError(errors.New("boom"))
	assert.Equal(t, Fail, plain.Code)
	assert.Equal(t, "boom", plain.Msg)
}

func TestBusinessErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewBusinessError(WithErrorCode(Upstream), WithErrorMessage("catalog"), WithError(cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog: dial tcp: refused", err.Error())
}
