// Package usecase はringtryonフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

// ErrNoHandDetected is returned when the hand photo contains no detectable hand.
var ErrNoHandDetected = errors.New("no hand detected in the image")
