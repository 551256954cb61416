// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"soulbuddy_backend/internal/api"
	"soulbuddy_backend/internal/feature/users/domain/entity"
	"soulbuddy_backend/internal/feature/users/transport/http/dto"
	"soulbuddy_backend/internal/feature/users/usecase"
	"soulbuddy_backend/internal/shared/apperror"
)

// UsersUsecase はユーザー操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type UsersUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, bool, error)
	List(ctx context.Context) ([]entity.User, error)
}

// UsersHandler はユーザー登録・一覧のHTTPリクエストを処理します。
type UsersHandler struct {
	uc UsersUsecase
}

// NewUsersHandler はUsersHandlerの新しいインスタンスを生成します。
func NewUsersHandler(uc UsersUsecase) *UsersHandler {
	return &UsersHandler{uc: uc}
}

// Register は POST /users を処理します。
// - 同じ名前・生年月日・出生時刻のユーザーが存在すれば200で既存ユーザーを返却
// - 存在しなければ作成して201を返却
// - 入力不正時は400を返却
func (h *UsersHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "name, dateOfBirth and timeOfBirth are required"})
		return
	}

	user, created, err := h.uc.Register(c.Request.Context(), usecase.RegisterInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		TimeOfBirth: req.TimeOfBirth,
		Gender:      req.Gender,
		State:       req.State,
		City:        req.City,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("register user failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to register user"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, ToUserResponse(user))
}

// List は GET /users を処理し、作成日時の新しい順にユーザーを返します。
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch users"})
		return
	}

	out := make([]api.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// ToUserResponse はエンティティをレスポンス形式に変換します。
func ToUserResponse(u *entity.User) api.UserResponse {
	res := api.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		DateOfBirth: u.DateOfBirth,
		TimeOfBirth: u.TimeOfBirth,
		Gender:      u.Gender,
		State:       u.State,
		City:        u.City,
		CreatedAt:   u.CreatedAt.UTC(),
	}
	if u.Latitude != nil && u.Longitude != nil {
		res.Coordinates = &api.CoordinatesResponse{Latitude: *u.Latitude, Longitude: *u.Longitude}
	}
	if u.Horoscope != nil {
		res.Horoscope = u.Horoscope
	}
	return res
}
