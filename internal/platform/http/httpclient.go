package http

import (
	"net"
	"net/http"
	"time"
)

// defaultMaxIdleConnsPerHost はホストごとに保持するアイドル接続数の既定値です。
// http.Transportの既定値(2)ではホロスコープ生成の並列呼び出しで接続が張り直されます。
const defaultMaxIdleConnsPerHost = 8

// ClientOptions は外部API用HTTPクライアントの設定です。
type ClientOptions struct {
	Timeout             time.Duration // リクエスト全体のタイムアウト
	MaxIdleConnsPerHost int           // 0以下なら既定値
}

// NewHTTPClient は外部API呼び出し用のHTTPクライアントを作成します。
// 同一ホストへの並列リクエストで接続を使い回せるよう、ホストごとのアイドル接続数を設定します。
func NewHTTPClient(opts ClientOptions) *http.Client {
	perHost := opts.MaxIdleConnsPerHost
	if perHost <= 0 {
		perHost = defaultMaxIdleConnsPerHost
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          perHost * 4,
		MaxIdleConnsPerHost:   perHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
	}
	return &http.Client{Timeout: opts.Timeout, Transport: t}
}
