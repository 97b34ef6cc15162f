package model

import "time"

// RequestLogCollection 请求日志集合名
const RequestLogCollection = "interface_request_log"

// 请求结果状态：1-成功、0-失败
const (
	RequestResultFailed  = 0
	RequestResultSucceed = 1
)

// RequestLog 接口请求日志（MongoDB文档，只写不改）
//
// Result 由响应体中code字段与应用配置的成功码比较得出，
// 与HTTP状态码无关。
type RequestLog struct {
	ID       string         `bson:"_id,omitempty" json:"id"`
	AppID    string         `bson:"app_id" json:"app_id"`
	AppSlug  string         `bson:"app_slug" json:"app_slug"`
	APIID    string         `bson:"api_id,omitempty" json:"api_id"` // 未匹配到接口时为空
	URI      string         `bson:"uri" json:"uri"`
	Method   string         `bson:"method" json:"method"`
	Params   map[string]any `bson:"params,omitempty" json:"params"`
	Response map[string]any `bson:"response,omitempty" json:"response"`
	Result   int            `bson:"result" json:"result"`
	Referer  string         `bson:"referer,omitempty" json:"referer"`
	IP       string         `bson:"ip" json:"ip"`
	Device   string         `bson:"device,omitempty" json:"device"`
	Created  time.Time      `bson:"created" json:"created"`
}
