package gateway

import (
	"testing"

	"virapi/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSucceedBody(t *testing.T) {
	tests := []struct {
		name     string
		tpl      model.ResponseTemplate
		data     any
		expected map[string]any
	}{
		{
			name:     "full template with data",
			tpl:      model.DefaultResponseTemplate(),
			data:     map[string]any{"id": 1},
			expected: map[string]any{
				"code":    200,
				"message": "Succeed",
				"data":    map[string]any{"id": 1},
			},
		},
		{
			name: "string code coerced to int",
			tpl: model.ResponseTemplate{
				CodeName:         "status",
				SucceedCodeValue: "1",
			},
			data:     map[string]any{"ok": true},
			expected: map[string]any{"status": 1},
		},
		{
			name: "data key present only when data_name configured",
			tpl: model.ResponseTemplate{
				CodeName:         "code",
				SucceedCodeValue: 0,
				DataName:         "payload",
			},
			data:     map[string]any{"ok": true},
			expected: map[string]any{
				"code":    0,
				"payload": map[string]any{"ok": true},
			},
		},
		{
			name:     "nil payload omits data key",
			tpl:      model.DefaultResponseTemplate(),
			data:     nil,
			expected: map[string]any{"code": 200, "message": "Succeed"},
		},
		{
			name: "message key omitted when message_name unset",
			tpl: model.ResponseTemplate{
				CodeName:            "code",
				SucceedCodeValue:    200,
				SucceedMessageValue: "ignored",
			},
			data:     nil,
			expected: map[string]any{"code": 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SucceedBody(tt.tpl, tt.data))
		})
	}
}

func TestFailedBody(t *testing.T) {
	tpl := model.DefaultResponseTemplate()

	body := FailedBody(tpl, MsgTokenError)
	assert.Equal(t, map[string]any{"code": 1000, "message": "token error!"}, body)

	// 未指定文案时回落到模板的失败文案
	body = FailedBody(tpl, "")
	assert.Equal(t, map[string]any{"code": 1000, "message": "Failed"}, body)

	// 失败响应从不携带data字段
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestIsSucceedBody(t *testing.T) {
	tpl := model.ResponseTemplate{
		CodeName:         "code",
		SucceedCodeValue: "200",
		FailedCodeValue:  1000,
	}

	assert.True(t, IsSucceedBody(tpl, map[string]any{"code": 200}))
	assert.True(t, IsSucceedBody(tpl, map[string]any{"code": "200"}))
	assert.False(t, IsSucceedBody(tpl, map[string]any{"code": 1000}))
	assert.False(t, IsSucceedBody(tpl, map[string]any{"status": 200}))
	assert.False(t, IsSucceedBody(tpl, nil))
}

func TestNormalizedCode(t *testing.T) {
	assert.Equal(t, 1, model.NormalizedCode("1"))
	assert.Equal(t, 200, model.NormalizedCode("200"))
	assert.Equal(t, 200, model.NormalizedCode(float64(200)))
	assert.Equal(t, "-1", model.NormalizedCode("-1"))
	assert.Equal(t, "ok", model.NormalizedCode("ok"))
	assert.Equal(t, 1.5, model.NormalizedCode(1.5))
	assert.Equal(t, true, model.NormalizedCode(true))
}
