package core

// Surface is a sized drawing area that reports resizes.
type Surface interface {
	Size() (width, height int)
	PixelRatio() float32
	OnResize(fn func(width, height int))
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)
