// Package dto はchatフィーチャーのHTTPトランスポート層のDTOを定義します。
package dto

// ChatReq は POST /chat のリクエストボディです。
type ChatReq struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}
