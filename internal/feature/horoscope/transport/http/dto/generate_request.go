// Package dto はhoroscopeフィーチャーのHTTPトランスポート層のDTOを定義します。
package dto

// GenerateReq は POST /horoscope のリクエストボディです。
// 緯度経度は0を有効な値として扱うためポインタで受け取ります。
type GenerateReq struct {
	Datetime  string   `json:"datetime"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	UserID    string   `json:"userId"`
}
