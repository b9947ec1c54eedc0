package wire

import "encoding/json"

// SentinelConnected is the plain-text frame the push channel sends right
// after the connection is accepted. It is not a notification.
const SentinelConnected = "连接成功"

// Frame types
const (
	FrameExportExcel = "EXPORT_EXCEL"
)

// Frame is a typed push-channel message. Data is decoded according to Type.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ExportExcelData announces that a background Excel export finished and where
// to download the result.
type ExportExcelData struct {
	TaskID   ID     `json:"taskId"`
	UserID   ID     `json:"userId"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
}
