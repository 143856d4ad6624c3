package secondbrain

// Point is a position in viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is a width and height in viewport units.
type Size struct {
	W float64
	H float64
}

// Rect is a rectangle in viewport coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Placer computes where a popover should appear. Implementations keep the
// popover on-screen, flipping or shifting as needed; the caller applies the
// result as a 2D translation.
type Placer interface {
	// Place returns the top-left position for a popover of the given size,
	// anchored near the pointer coordinates captured at hover time.
	Place(anchor Rect, popover Size, pointer Point) Point
}
