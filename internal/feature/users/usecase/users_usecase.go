package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"soulbuddy_backend/internal/feature/users/domain/entity"
	"soulbuddy_backend/internal/shared/apperror"
)

const (
	// MaxNameLength はユーザー名の最大文字数（rune数）です。
	MaxNameLength = 100
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04"
)

// UserRepository はユーザーの永続化を担うリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type UserRepository interface {
	// FindByIdentity は名前と出生日時で一致するユーザーを返します。存在しない場合はErrUserNotFoundを返します。
	FindByIdentity(ctx context.Context, name, dateOfBirth, timeOfBirth string) (*entity.User, error)
	// Create はユーザーを追加します。同一人物が既に存在する場合はErrUserAlreadyExistsを返します。
	Create(ctx context.Context, u *entity.User) error
	// List は作成日時の新しい順に全ユーザーを返します。
	List(ctx context.Context) ([]entity.User, error)
}

// RegisterInput はユーザー登録の入力です。
type RegisterInput struct {
	Name        string
	DateOfBirth string
	TimeOfBirth string
	Gender      string
	State       string
	City        string
}

// usersUsecase はユーザー登録・一覧のビジネスロジックを提供します。
type usersUsecase struct {
	repo UserRepository
}

// NewUsersUsecase はusersUsecaseの新しいインスタンスを生成します。
func NewUsersUsecase(repo UserRepository) *usersUsecase {
	return &usersUsecase{repo: repo}
}

// Register は同じ名前・生年月日・出生時刻のユーザーが存在すればそれを返し、
// 存在しなければ新規作成します。2番目の戻り値は新規作成したかどうかです。
func (u *usersUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, bool, error) {
	in, err := normalizeRegisterInput(in)
	if err != nil {
		return nil, false, err
	}

	existing, err := u.repo.FindByIdentity(ctx, in.Name, in.DateOfBirth, in.TimeOfBirth)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	user := &entity.User{
		ID:          uuid.NewString(),
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		TimeOfBirth: in.TimeOfBirth,
		Gender:      in.Gender,
		State:       in.State,
		City:        in.City,
		CreatedAt:   time.Now().UTC(),
	}
	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			// 同時登録で先に作成された方を返す
			existing, ferr := u.repo.FindByIdentity(ctx, in.Name, in.DateOfBirth, in.TimeOfBirth)
			if ferr != nil {
				return nil, false, fmt.Errorf("find user after conflict: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, true, nil
}

// List は作成日時の新しい順に全ユーザーを返します。
func (u *usersUsecase) List(ctx context.Context) ([]entity.User, error) {
	return u.repo.List(ctx)
}

// normalizeRegisterInput は入力を検証し、前後の空白を取り除きます。
func normalizeRegisterInput(in RegisterInput) (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.TimeOfBirth = strings.TrimSpace(in.TimeOfBirth)
	in.Gender = strings.TrimSpace(in.Gender)
	in.State = strings.TrimSpace(in.State)
	in.City = strings.TrimSpace(in.City)

	if in.Name == "" {
		return in, apperror.Validation("name is required")
	}
	if utf8.RuneCountInString(in.Name) > MaxNameLength {
		return in, apperror.Validation("name exceeds maximum length of %d characters", MaxNameLength)
	}
	dob, err := time.Parse(dateLayout, in.DateOfBirth)
	if err != nil {
		return in, apperror.Validation("dateOfBirth must be YYYY-MM-DD")
	}
	if dob.After(time.Now()) {
		return in, apperror.Validation("dateOfBirth is in the future")
	}
	if _, err := time.Parse(timeLayout, in.TimeOfBirth); err != nil {
		return in, apperror.Validation("timeOfBirth must be HH:mm")
	}
	return in, nil
}
