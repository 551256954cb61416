// Package api はHTTP APIのリクエスト/レスポンス型を定義します。
package api

import "time"

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は本文を持たない成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// CoordinatesResponse は緯度経度です。
type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserResponse は登録済みユーザーです。horoscopeは生成済みの場合のみ含まれます。
type UserResponse struct {
	ID          string               `json:"_id"`
	Name        string               `json:"name"`
	DateOfBirth string               `json:"dateOfBirth"`
	TimeOfBirth string               `json:"timeOfBirth"`
	Gender      string               `json:"gender,omitempty"`
	State       string               `json:"state,omitempty"`
	City        string               `json:"city,omitempty"`
	Coordinates *CoordinatesResponse `json:"coordinates,omitempty"`
	Horoscope   any                  `json:"horoscope,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// HoroscopeHistoryResponse は履歴ストアの1件です。
type HoroscopeHistoryResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Interpretations any       `json:"interpretations"`
	Recommendations any       `json:"recommendations"`
	MangalDosha     any       `json:"mangalDosha"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// GeocodeResponse は都市・州から解決した座標です。
type GeocodeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Matched   string  `json:"matched"`
}

// HealthResponse はヘルスチェックの結果です。
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
