package prokerala

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"soulbuddy_backend/internal/shared/apperror"
)

// TokenSource はclient-credentialsで取得したアクセストークンを有効期限までキャッシュします。
// 有効期限の判定には注入された時計を使うため、テストで時間経過を制御できます。
type TokenSource struct {
	cfg    clientcredentials.Config
	client *http.Client
	now    func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource はTokenSourceの新しいインスタンスを生成します。nowがnilの場合はtime.Nowを使います。
func NewTokenSource(cfg Config, client *http.Client, now func() time.Time) *TokenSource {
	if now == nil {
		now = time.Now
	}
	return &TokenSource{
		cfg: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: client,
		now:    now,
	}
}

// Token は有効なアクセストークンを返します。期限切れまたは未取得の場合のみ交換を行います。
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.token.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := s.cfg.Token(ctx)
	if err != nil {
		return "", tokenError(err)
	}
	s.token = tok
	return tok.AccessToken, nil
}

// Invalidate はキャッシュ済みのトークンを破棄します。
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}

// valid は有効期限付きのトークンが期限前であればtrueを返します。期限のないトークンはキャッシュしません。
func (s *TokenSource) valid() bool {
	if s.token == nil || s.token.AccessToken == "" || s.token.Expiry.IsZero() {
		return false
	}
	return s.now().Before(s.token.Expiry)
}

func tokenError(err error) error {
	pe := &apperror.ProviderError{Provider: providerName, Message: "token exchange failed", Err: err}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		pe.StatusCode = re.Response.StatusCode
		switch {
		case re.ErrorDescription != "":
			pe.Message = re.ErrorDescription
		case re.ErrorCode != "":
			pe.Message = re.ErrorCode
		default:
			pe.Message = http.StatusText(re.Response.StatusCode)
		}
	}
	return pe
}
