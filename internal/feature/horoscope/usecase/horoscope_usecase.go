package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	chartentity "soulbuddy_backend/internal/feature/chart/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/shared/apperror"
)

const (
	// DefaultHistoryLimit は履歴取得件数の既定値です。
	DefaultHistoryLimit = 20
	// MaxHistoryLimit は履歴取得件数の上限です。
	MaxHistoryLimit = 100
)

// birthTimeLayouts は受け付ける出生日時の書式です。タイムゾーンのない書式はUTCとして解釈します。
var birthTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// AstrologyProvider は占星術データの取得元です。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AstrologyProvider interface {
	// FetchChart はラーシチャートのSVGを返します。
	FetchChart(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error)
	// FetchPanchang はその日の吉凶の時間帯を返します。
	FetchPanchang(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error)
}

// ChartFactExtractor はチャートSVGから構造化データを取り出します。
type ChartFactExtractor interface {
	Extract(markup string) (chartentity.ExtractedChart, chartentity.ExtractionReport)
}

// UserStore はホロスコープを保持するユーザーレコードへのアクセスです。
type UserStore interface {
	// UserExists はユーザーが存在しない場合にErrUserNotFoundを返します。
	UserExists(ctx context.Context, userID string) error
	// SaveHoroscope はユーザーのホロスコープと座標を置き換えます。
	SaveHoroscope(ctx context.Context, userID string, h entity.Horoscope, coords entity.Coordinates) error
	// FindHoroscope は保存済みのホロスコープを返します。未生成の場合はnilを返します。
	FindHoroscope(ctx context.Context, userID string) (*entity.Horoscope, error)
}

// HistoryStore はホロスコープ履歴の追記専用ストアです。
type HistoryStore interface {
	Append(ctx context.Context, s entity.Snapshot) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error)
}

// GenerateInput はホロスコープ生成の入力です。
type GenerateInput struct {
	Datetime  string
	Latitude  *float64
	Longitude *float64
	UserID    string
}

// horoscopeUsecase はホロスコープ生成・取得のビジネスロジックを提供します。
type horoscopeUsecase struct {
	provider  AstrologyProvider
	extractor ChartFactExtractor
	users     UserStore
	history   HistoryStore
}

// NewHoroscopeUsecase はhoroscopeUsecaseの新しいインスタンスを生成します。
func NewHoroscopeUsecase(p AstrologyProvider, ex ChartFactExtractor, users UserStore, history HistoryStore) *horoscopeUsecase {
	return &horoscopeUsecase{provider: p, extractor: ex, users: users, history: history}
}

// Generate はプロバイダーへの4つの呼び出しを並行に行い、ホロスコープを生成して保存します。
// いずれかの呼び出しが失敗した場合は部分的な結果を返さずに失敗します。
func (u *horoscopeUsecase) Generate(ctx context.Context, in GenerateInput) (*entity.Horoscope, error) {
	at, coords, err := validateGenerateInput(in)
	if err != nil {
		return nil, err
	}
	if err := u.users.UserExists(ctx, in.UserID); err != nil {
		return nil, err
	}

	var (
		birthChart chartentity.ExtractedChart
		positions  map[string]entity.PlanetPosition
		dosha      entity.MangalDosha
		chartSVG   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		markup, err := u.provider.FetchChart(gctx, at, coords)
		if err != nil {
			return fmt.Errorf("birth chart: %w", err)
		}
		chart, report := u.extractor.Extract(markup)
		if report.Degraded() {
			slog.Warn("chart extraction fell back to defaults",
				"user_id", in.UserID,
				"ascendant_found", report.AscendantFound,
				"unplaced", report.Unplaced)
		}
		birthChart = chart
		return nil
	})
	g.Go(func() error {
		markup, err := u.provider.FetchChart(gctx, at, coords)
		if err != nil {
			return fmt.Errorf("planet positions: %w", err)
		}
		chart, _ := u.extractor.Extract(markup)
		positions = PlanetPositions(chart)
		return nil
	})
	g.Go(func() error {
		p, err := u.provider.FetchPanchang(gctx, at, coords)
		if err != nil {
			return fmt.Errorf("mangal dosha: %w", err)
		}
		dosha = AnalyzeMangalDosha(p)
		return nil
	})
	g.Go(func() error {
		markup, err := u.provider.FetchChart(gctx, at, coords)
		if err != nil {
			return fmt.Errorf("chart svg: %w", err)
		}
		chartSVG = markup
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := entity.Horoscope{
		BirthChart:      birthChart,
		ChartSVG:        chartSVG,
		PlanetPositions: positions,
		MangalDosha:     dosha,
		Interpretations: Interpret(birthChart),
		Recommendations: Recommend(dosha),
		LastUpdated:     time.Now().UTC(),
	}

	// 履歴はユーザーに保存済みの内容だけを残すため、先にユーザーを更新する
	if err := u.users.SaveHoroscope(ctx, in.UserID, h, coords); err != nil {
		return nil, fmt.Errorf("save horoscope: %w", err)
	}
	if err := u.history.Append(ctx, entity.SnapshotOf(uuid.NewString(), in.UserID, h)); err != nil {
		slog.Warn("failed to append horoscope history", "user_id", in.UserID, "error", err)
	}

	slog.Info("horoscope generated", "user_id", in.UserID, "ascendant", birthChart.AscendantSign, "has_dosha", dosha.HasDosha)
	return &h, nil
}

// Get は保存済みのホロスコープを返します。未生成の場合はnilを返します。
func (u *horoscopeUsecase) Get(ctx context.Context, userID string) (*entity.Horoscope, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation("userId is required")
	}
	return u.users.FindHoroscope(ctx, userID)
}

// History はユーザーのホロスコープ履歴を新しい順に返します。
func (u *horoscopeUsecase) History(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation("userId is required")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if err := u.users.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	return u.history.ListByUser(ctx, userID, limit)
}

// validateGenerateInput は必須項目を検証し、出生日時と座標を返します。
func validateGenerateInput(in GenerateInput) (time.Time, entity.Coordinates, error) {
	var missing []string
	if strings.TrimSpace(in.Datetime) == "" {
		missing = append(missing, "datetime")
	}
	if in.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if in.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if strings.TrimSpace(in.UserID) == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return time.Time{}, entity.Coordinates{}, apperror.Validation("missing required parameters: %s", strings.Join(missing, ", "))
	}

	at, err := ParseBirthTime(in.Datetime)
	if err != nil {
		return time.Time{}, entity.Coordinates{}, err
	}
	lat, lon := *in.Latitude, *in.Longitude
	if lat < -90 || lat > 90 {
		return time.Time{}, entity.Coordinates{}, apperror.Validation("latitude out of range: %v", lat)
	}
	if lon < -180 || lon > 180 {
		return time.Time{}, entity.Coordinates{}, apperror.Validation("longitude out of range: %v", lon)
	}
	return at, entity.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// ParseBirthTime は出生日時を解釈します。タイムゾーンのない値はUTCとして扱います。
func ParseBirthTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range birthTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.Validation("invalid datetime %q", s)
}
