package layout

// This file defines conversion constants between the pixel-based layout
// space and the physical units used by the vector backend. Layout math and
// the Measurer contract stay in px; backends convert at their boundary.
//
// The CSS reference pixel: 96px = 1in = 72pt = 25.4mm.

const (
	PxToPt = 72.0 / 96.0
	PtToPx = 96.0 / 72.0
	PxToMm = 25.4 / 96.0
	MmToPx = 96.0 / 25.4
)
