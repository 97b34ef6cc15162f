package gateway

import (
	"virapi/internal/model"
)

// 网关失败响应的固定文案
const (
	MsgUserNotExist     = "APPLICATION NOT EXIST!"
	MsgAppNotExist      = "The application does not exist or is invalid!"
	MsgTokenError       = "token error!"
	MsgInterfaceInvalid = "Interface error or invalid!"
	MsgGenerationFailed = "Generate response failed!"
)

// SucceedBody 按应用模板构造成功响应体
//
// code字段必出；message字段仅在模板配置了message_name时出现；
// data字段仅在模板配置了data_name且载荷非空时出现。
func SucceedBody(tpl model.ResponseTemplate, data any) map[string]any {
	body := map[string]any{
		tpl.CodeName: model.NormalizedCode(tpl.SucceedCodeValue),
	}
	if tpl.MessageName != "" {
		body[tpl.MessageName] = tpl.SucceedMessageValue
	}
	if tpl.DataName != "" && data != nil {
		body[tpl.DataName] = data
	}
	return body
}

// FailedBody 按应用模板构造失败响应体
//
// message为空时回落到模板的failed_message_value。
func FailedBody(tpl model.ResponseTemplate, message string) map[string]any {
	body := map[string]any{
		tpl.CodeName: model.NormalizedCode(tpl.FailedCodeValue),
	}
	if tpl.MessageName != "" {
		if message == "" {
			message = tpl.FailedMessageValue
		}
		body[tpl.MessageName] = message
	}
	return body
}

// IsSucceedBody 判断响应体的code字段是否等于模板的成功码（数值归一后比较）
func IsSucceedBody(tpl model.ResponseTemplate, body map[string]any) bool {
	if body == nil {
		return false
	}
	code, ok := body[tpl.CodeName]
	if !ok {
		return false
	}
	return model.NormalizedCode(code) == model.NormalizedCode(tpl.SucceedCodeValue)
}
