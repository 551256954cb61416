// Package entity はringtryonフィーチャーのドメインモデルを定義します。
package entity

// HandBox は画像内で検出された手の外接矩形です。座標は画像サイズで正規化された0〜1の値です。
type HandBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Score  float32
}

// Width は正規化された幅を返します。
func (b HandBox) Width() float64 { return b.Right - b.Left }

// Height は正規化された高さを返します。
func (b HandBox) Height() float64 { return b.Bottom - b.Top }
