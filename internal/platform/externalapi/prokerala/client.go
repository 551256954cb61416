package prokerala

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
	"soulbuddy_backend/internal/platform/externalapi/prokerala/dto"
	"soulbuddy_backend/internal/shared/apperror"
	"soulbuddy_backend/internal/shared/ratelimiter"
)

const (
	providerName = "prokerala"
	// datetimeLayout はAPIが要求するIST表記の日時書式です。
	datetimeLayout = "2006-01-02T15:04:05-07:00"
	maxBodyBytes   = 4 << 20
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// ProkeralaClient はProkerala APIからチャートとパンチャンを取得するAstrologyProvider実装です。
type ProkeralaClient struct {
	cfg     Config
	client  *http.Client
	tokens  *TokenSource
	limiter ratelimiter.RateLimiterInterface
}

// ProkeralaClientがAstrologyProviderを実装していることをコンパイル時に検証します。
var _ usecase.AstrologyProvider = (*ProkeralaClient)(nil)

// NewProkeralaClient は指定された設定でProkeralaClientの新しいインスタンスを生成します。
func NewProkeralaClient(cfg Config, client *http.Client, tokens *TokenSource, limiter ratelimiter.RateLimiterInterface) *ProkeralaClient {
	return &ProkeralaClient{cfg: cfg, client: client, tokens: tokens, limiter: limiter}
}

// FetchChart は北インド式ラーシチャートをSVGで取得します。
func (c *ProkeralaClient) FetchChart(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error) {
	q := baseParams(at, coords)
	q.Set("chart_type", "rasi")
	q.Set("chart_style", "north-indian")
	q.Set("format", "svg")
	q.Set("la", "en")

	body, err := c.get(ctx, "chart", q, "image/svg+xml")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchPanchang は詳細パンチャンを取得し、吉凶の時間帯を返します。
func (c *ProkeralaClient) FetchPanchang(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error) {
	body, err := c.get(ctx, "panchang/advanced", baseParams(at, coords), "application/json")
	if err != nil {
		return nil, err
	}

	var res dto.PanchangResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &apperror.ProviderError{Provider: providerName, Message: "malformed panchang response", Err: err}
	}

	return &entity.Panchang{
		AuspiciousPeriods:   toPeriods(res.Data.AuspiciousPeriod),
		InauspiciousPeriods: toPeriods(res.Data.InauspiciousPeriod),
	}, nil
}

// get は認証付きでエンドポイントを呼び出し、レスポンスボディを返します。
func (c *ProkeralaClient) get(ctx context.Context, endpoint string, q url.Values, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", accept)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &apperror.ProviderError{Provider: providerName, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, &apperror.ProviderError{Provider: providerName, StatusCode: res.StatusCode, Err: err}
	}

	if res.StatusCode >= 400 {
		if res.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate()
		}
		pe := &apperror.ProviderError{Provider: providerName, StatusCode: res.StatusCode, Message: errorDetail(body, res.StatusCode)}
		slog.Warn("prokerala request failed", "endpoint", endpoint, "status", res.StatusCode, "message", pe.Message)
		return nil, pe
	}
	return body, nil
}

// baseParams は全エンドポイント共通のクエリパラメータを組み立てます。
func baseParams(at time.Time, coords entity.Coordinates) url.Values {
	q := url.Values{}
	q.Set("ayanamsa", "1")
	q.Set("coordinates", FormatCoordinates(coords))
	q.Set("datetime", FormatDatetime(at))
	return q
}

// FormatDatetime は時刻をISTに変換し、"YYYY-MM-DDTHH:mm:ss+05:30"形式で返します。
func FormatDatetime(at time.Time) string {
	return at.In(ist).Format(datetimeLayout)
}

// FormatCoordinates は座標を"lat,lon"形式で返します。
func FormatCoordinates(c entity.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// errorDetail はエラーボディのerrors[0].detailを返します。取り出せない場合はステータス文言を返します。
func errorDetail(body []byte, status int) string {
	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
			return e.Errors[0].Detail
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return http.StatusText(status)
}

func toPeriods(in []dto.Period) []entity.Period {
	out := make([]entity.Period, 0, len(in))
	for _, p := range in {
		windows := make([]entity.Window, 0, len(p.Period))
		for _, w := range p.Period {
			windows = append(windows, entity.Window{Start: w.Start, End: w.End})
		}
		out = append(out, entity.Period{Name: p.Name, Windows: windows})
	}
	return out
}
