// Package dto はusersフィーチャーのHTTPトランスポート層のDTOを定義します。
package dto

// RegisterReq は POST /users のリクエストボディです。
type RegisterReq struct {
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	TimeOfBirth string `json:"timeOfBirth" binding:"required"`
	Gender      string `json:"gender"`
	State       string `json:"state"`
	City        string `json:"city"`
}
