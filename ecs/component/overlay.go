package component

// ScreenFade is the full-screen overlay used to hide year swaps. Alpha 1
// is fully opaque.
type ScreenFade struct {
	Alpha float64
}

var ScreenFadeComponent = NewComponent[ScreenFade]()
