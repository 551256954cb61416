package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulbuddy_backend/internal/feature/chart/extractor"
	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
	"soulbuddy_backend/internal/shared/apperror"
)

const sampleChart = `<svg>` +
	`<text x="10" y="10">Asc Leo</text>` +
	`<text x="0" y="0">Su</text>` +
	`<text x="1" y="0">5</text>` +
	`<text x="100" y="100">7</text>` +
	`<text x="99" y="100">Mo</text>` +
	`</svg>`

// mockProvider はAstrologyProviderのモック実装です。並行に呼ばれるため呼び出し回数はatomicで数えます。
type mockProvider struct {
	FetchChartFunc     func(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error)
	FetchPanchangFunc  func(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error)
	FetchChartCalls    atomic.Int32
	FetchPanchangCalls atomic.Int32
}

func (m *mockProvider) FetchChart(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error) {
	m.FetchChartCalls.Add(1)
	if m.FetchChartFunc != nil {
		return m.FetchChartFunc(ctx, at, coords)
	}
	return sampleChart, nil
}

func (m *mockProvider) FetchPanchang(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error) {
	m.FetchPanchangCalls.Add(1)
	if m.FetchPanchangFunc != nil {
		return m.FetchPanchangFunc(ctx, at, coords)
	}
	return &entity.Panchang{}, nil
}

// mockUserStore はUserStoreのモック実装です。
type mockUserStore struct {
	mu                sync.Mutex
	UserExistsFunc    func(ctx context.Context, userID string) error
	FindHoroscopeFunc func(ctx context.Context, userID string) (*entity.Horoscope, error)
	SaveHoroscopeErr  error
	Saved             *entity.Horoscope
	SavedCoords       entity.Coordinates
	SaveCalls         int
}

func (m *mockUserStore) UserExists(ctx context.Context, userID string) error {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserStore) SaveHoroscope(_ context.Context, _ string, h entity.Horoscope, coords entity.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveHoroscopeErr != nil {
		return m.SaveHoroscopeErr
	}
	m.Saved = &h
	m.SavedCoords = coords
	return nil
}

func (m *mockUserStore) FindHoroscope(ctx context.Context, userID string) (*entity.Horoscope, error) {
	if m.FindHoroscopeFunc != nil {
		return m.FindHoroscopeFunc(ctx, userID)
	}
	return nil, nil
}

// mockHistoryStore はHistoryStoreのモック実装です。
type mockHistoryStore struct {
	AppendErr      error
	Appended       []entity.Snapshot
	ListByUserFunc func(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error)
}

func (m *mockHistoryStore) Append(_ context.Context, s entity.Snapshot) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended = append(m.Appended, s)
	return nil
}

func (m *mockHistoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

func ptr(f float64) *float64 { return &f }

func validInput() usecase.GenerateInput {
	return usecase.GenerateInput{
		Datetime:  "1990-05-15T10:30",
		Latitude:  ptr(19.076),
		Longitude: ptr(72.8777),
		UserID:    "user-1",
	}
}

func samplePanchang() *entity.Panchang {
	return &entity.Panchang{
		AuspiciousPeriods: []entity.Period{
			{Name: "Abhijit Muhurat", Windows: []entity.Window{{Start: "11:50", End: "12:40"}}},
			{Name: "Amrit Kaal", Windows: []entity.Window{{Start: "14:00", End: "15:30"}}},
			{Name: "Brahma Muhurat", Windows: []entity.Window{{Start: "04:20", End: "05:05"}}},
		},
		InauspiciousPeriods: []entity.Period{
			{Name: "Rahu", Windows: []entity.Window{{Start: "10:30", End: "12:00"}, {Start: "22:00", End: "23:00"}}},
		},
	}
}

func TestHoroscopeUsecase_Generate_Success(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{
		FetchPanchangFunc: func(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error) {
			return samplePanchang(), nil
		},
		FetchChartFunc: func(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error) {
			assert.Equal(t, time.Date(1990, 5, 15, 10, 30, 0, 0, time.UTC), at)
			assert.Equal(t, entity.Coordinates{Latitude: 19.076, Longitude: 72.8777}, coords)
			return sampleChart, nil
		},
	}
	users := &mockUserStore{}
	history := &mockHistoryStore{}
	uc := usecase.NewHoroscopeUsecase(provider, extractor.NewSVGExtractor(), users, history)

	h, err := uc.Generate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, int32(3), provider.FetchChartCalls.Load(), "three chart calls in the fan-out")
	assert.Equal(t, int32(1), provider.FetchPanchangCalls.Load())

	assert.Equal(t, "Leo", h.BirthChart.AscendantSign)
	assert.Equal(t, 5, h.BirthChart.HouseOf("Sun"))
	assert.Equal(t, sampleChart, h.ChartSVG)
	assert.Equal(t, entity.PlanetPosition{Sign: "Leo", Degree: 0}, h.PlanetPositions["Sun"])
	assert.Equal(t, entity.PlanetPosition{Sign: "Libra", Degree: 0}, h.PlanetPositions["Moon"])
	assert.Len(t, h.PlanetPositions, 2)

	assert.True(t, h.MangalDosha.HasDosha)
	assert.Equal(t, "Moderate", h.MangalDosha.Intensity)
	assert.Contains(t, h.Interpretations.Personality, "Your ascendant in Leo")
	assert.Len(t, h.Recommendations.Gemstones, 4)
	assert.Len(t, h.Recommendations.Mantras, 4)
	assert.Equal(t, h.MangalDosha.Remedies, h.Recommendations.Remedies)
	assert.False(t, h.LastUpdated.IsZero())

	require.Len(t, history.Appended, 1)
	assert.Equal(t, "user-1", history.Appended[0].UserID)
	assert.NotEmpty(t, history.Appended[0].ID)
	assert.Equal(t, h.Interpretations, history.Appended[0].Interpretations)

	require.NotNil(t, users.Saved)
	assert.Equal(t, *h, *users.Saved)
	assert.Equal(t, entity.Coordinates{Latitude: 19.076, Longitude: 72.8777}, users.SavedCoords)
}

// TestHoroscopeUsecase_Generate_Validation は必須項目の欠落時にネットワーク呼び出しをせずに拒否することを検証します。
func TestHoroscopeUsecase_Generate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(in *usecase.GenerateInput)
	}{
		{"missing datetime", func(in *usecase.GenerateInput) { in.Datetime = "" }},
		{"missing latitude", func(in *usecase.GenerateInput) { in.Latitude = nil }},
		{"missing longitude", func(in *usecase.GenerateInput) { in.Longitude = nil }},
		{"missing user id", func(in *usecase.GenerateInput) { in.UserID = "  " }},
		{"unparsable datetime", func(in *usecase.GenerateInput) { in.Datetime = "15/05/1990" }},
		{"latitude out of range", func(in *usecase.GenerateInput) { in.Latitude = ptr(91) }},
		{"longitude out of range", func(in *usecase.GenerateInput) { in.Longitude = ptr(-181) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &mockProvider{}
			users := &mockUserStore{}
			uc := usecase.NewHoroscopeUsecase(provider, extractor.NewSVGExtractor(), users, &mockHistoryStore{})

			in := validInput()
			tt.mutate(&in)
			_, err := uc.Generate(context.Background(), in)

			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Zero(t, provider.FetchChartCalls.Load())
			assert.Zero(t, provider.FetchPanchangCalls.Load())
			assert.Zero(t, users.SaveCalls)
		})
	}
}

func TestHoroscopeUsecase_Generate_ZeroCoordinatesAreValid(t *testing.T) {
	t.Parallel()

	uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), &mockUserStore{}, &mockHistoryStore{})

	in := validInput()
	in.Latitude, in.Longitude = ptr(0), ptr(0)
	_, err := uc.Generate(context.Background(), in)

	assert.NoError(t, err)
}

func TestHoroscopeUsecase_Generate_UserNotFound(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	users := &mockUserStore{
		UserExistsFunc: func(ctx context.Context, userID string) error { return usecase.ErrUserNotFound },
	}
	uc := usecase.NewHoroscopeUsecase(provider, extractor.NewSVGExtractor(), users, &mockHistoryStore{})

	_, err := uc.Generate(context.Background(), validInput())

	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	assert.Zero(t, provider.FetchChartCalls.Load())
}

// TestHoroscopeUsecase_Generate_ProviderFailure はいずれかの呼び出しが失敗すると何も保存せずに失敗することを検証します。
func TestHoroscopeUsecase_Generate_ProviderFailure(t *testing.T) {
	t.Parallel()

	vendorErr := &apperror.ProviderError{Provider: "prokerala", StatusCode: 400, Message: "Invalid coordinates"}
	tests := []struct {
		name     string
		provider *mockProvider
	}{
		{
			name: "chart call fails",
			provider: &mockProvider{
				FetchChartFunc: func(ctx context.Context, at time.Time, coords entity.Coordinates) (string, error) {
					return "", vendorErr
				},
			},
		},
		{
			name: "panchang call fails",
			provider: &mockProvider{
				FetchPanchangFunc: func(ctx context.Context, at time.Time, coords entity.Coordinates) (*entity.Panchang, error) {
					return nil, vendorErr
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &mockUserStore{}
			history := &mockHistoryStore{}
			uc := usecase.NewHoroscopeUsecase(tt.provider, extractor.NewSVGExtractor(), users, history)

			h, err := uc.Generate(context.Background(), validInput())

			assert.Nil(t, h)
			pe, ok := apperror.AsProviderError(err)
			require.True(t, ok, "expected provider error, got %v", err)
			assert.Equal(t, "Invalid coordinates", pe.Message)
			assert.Empty(t, history.Appended)
			assert.Zero(t, users.SaveCalls)
		})
	}
}

func TestHoroscopeUsecase_Generate_SaveFailureLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{SaveHoroscopeErr: errors.New("connection reset")}
	history := &mockHistoryStore{}
	uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), users, history)

	h, err := uc.Generate(context.Background(), validInput())

	assert.Nil(t, h)
	assert.ErrorContains(t, err, "save horoscope")
	assert.Equal(t, 1, users.SaveCalls)
	assert.Empty(t, history.Appended)
}

func TestHoroscopeUsecase_Generate_HistoryFailureKeepsSavedHoroscope(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{}
	history := &mockHistoryStore{AppendErr: errors.New("disk full")}
	uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), users, history)

	h, err := uc.Generate(context.Background(), validInput())

	require.NoError(t, err)
	require.NotNil(t, users.Saved)
	assert.Equal(t, h.Interpretations, users.Saved.Interpretations)
}

func TestHoroscopeUsecase_Get(t *testing.T) {
	t.Parallel()

	stored := &entity.Horoscope{ChartSVG: "<svg/>"}
	users := &mockUserStore{
		FindHoroscopeFunc: func(ctx context.Context, userID string) (*entity.Horoscope, error) {
			assert.Equal(t, "user-1", userID)
			return stored, nil
		},
	}
	uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), users, &mockHistoryStore{})

	h, err := uc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, stored, h)

	_, err = uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestHoroscopeUsecase_History_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"default when zero", 0, usecase.DefaultHistoryLimit},
		{"default when negative", -5, usecase.DefaultHistoryLimit},
		{"custom value kept", 5, 5},
		{"clamped to max", 1000, usecase.MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotLimit int
			history := &mockHistoryStore{
				ListByUserFunc: func(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error) {
					gotLimit = limit
					return []entity.Snapshot{{ID: "h1", UserID: userID}}, nil
				},
			}
			uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), &mockUserStore{}, history)

			out, err := uc.History(context.Background(), "user-1", tt.limit)
			require.NoError(t, err)
			assert.Len(t, out, 1)
			assert.Equal(t, tt.expected, gotLimit)
		})
	}
}

func TestHoroscopeUsecase_History_UserNotFound(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{
		UserExistsFunc: func(ctx context.Context, userID string) error { return usecase.ErrUserNotFound },
	}
	uc := usecase.NewHoroscopeUsecase(&mockProvider{}, extractor.NewSVGExtractor(), users, &mockHistoryStore{})

	_, err := uc.History(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestParseBirthTime(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"1990-05-15T10:30", time.Date(1990, 5, 15, 10, 30, 0, 0, time.UTC), false},
		{"1990-05-15T10:30:45", time.Date(1990, 5, 15, 10, 30, 45, 0, time.UTC), false},
		{"1990-05-15 10:30", time.Date(1990, 5, 15, 10, 30, 0, 0, time.UTC), false},
		{"1990-05-15T10:30:00+05:30", time.Date(1990, 5, 15, 10, 30, 0, 0, ist), false},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := usecase.ParseBirthTime(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}
