package grid

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay appearance. Cyan survives over most desktop content; the line
// alpha keeps the underlying UI readable for the model.
var (
	lineColor    = color.NRGBA{R: 0, G: 220, B: 255, A: 110}
	labelBg      = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
	labelFg      = color.NRGBA{R: 0, G: 255, B: 220, A: 255}
	overlayFace  = basicfont.Face7x13
	glyphWidth   = 7
	glyphHeight  = 13
	glyphAscent  = 11
	hiResWidth   = 1600 // above this, labels are drawn at 2x
	labelPadding = 2
)

// RenderOverlay burns the coordinate grid into a copy of the capture:
// semi-transparent lines along each interior cell boundary plus every
// cell's label, hex X field stacked over hex Y field, near its
// bottom-left corner over a translucent box. The
// label marks the cell's top-left origin; drawing it at the bottom keeps
// the two visually distinct so the model does not read it as a center
// point. Output dimensions always equal the input's.
func RenderOverlay(src image.Image, spec Spec) *image.NRGBA {
	canvas := imaging.Clone(src)
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	if w == 0 || h == 0 {
		return canvas
	}

	cols := spec.Columns(w)
	rows := spec.Rows(h)

	for col := 1; col < cols; col++ {
		x := col * spec.CellSize
		for y := 0; y < h; y++ {
			blendPx(canvas, x, y, lineColor)
			blendPx(canvas, x+1, y, lineColor) // 2px for visibility
		}
	}
	for row := 1; row < rows; row++ {
		y := row * spec.CellSize
		for x := 0; x < w; x++ {
			blendPx(canvas, x, y, lineColor)
			blendPx(canvas, x, y+1, lineColor)
		}
	}

	scale := 1
	if w > hiResWidth {
		scale = 2
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			origin := spec.CellOrigin(col, row)
			drawCellLabel(canvas, origin, spec.CellSize, w, h, scale)
		}
	}

	return canvas
}

// drawCellLabel draws one cell's label inside the cell's bottom-left
// corner, the X field stacked over the Y field so a full label fits the
// default cell width. All painting is clipped to the cell: a label must
// never bleed into a neighbour, or it destroys the neighbour's own label.
func drawCellLabel(canvas *image.NRGBA, origin image.Point, cellSize, width, height, scale int) {
	cellX1 := origin.X + cellSize
	if cellX1 > width {
		cellX1 = width
	}
	cellY1 := origin.Y + cellSize
	if cellY1 > height {
		cellY1 = height
	}
	cell := canvas.SubImage(image.Rect(origin.X, origin.Y, cellX1, cellY1)).(*image.NRGBA)

	label := FormatLabel(origin.X, origin.Y)
	fieldX, fieldY := label[:4], label[5:]

	textW := glyphWidth * len(fieldX) * scale
	textH := 2 * glyphHeight * scale
	if textW+2*labelPadding > cellSize || textH+2*labelPadding > cellSize {
		// Hi-res upscaling is cosmetic; a readable label wins.
		scale = 1
		textW = glyphWidth * len(fieldX)
		textH = 2 * glyphHeight
	}

	x0 := origin.X + labelPadding
	y1 := cellY1 - labelPadding
	y0 := y1 - textH - 2*labelPadding
	x1 := x0 + textW + 2*labelPadding

	fillRect(cell, x0, y0, x1, y1, labelBg)
	drawText(cell, x0+labelPadding, y0+labelPadding, scale, fieldX)
	drawText(cell, x0+labelPadding, y0+labelPadding+glyphHeight*scale, scale, fieldY)
}

// drawText renders monospaced text with its top-left corner at (x, y).
// At scale 1 the face is drawn directly; otherwise the text is rendered
// once and scaled up nearest-neighbour so the glyph edges stay crisp.
func drawText(dst *image.NRGBA, x, y, scale int, text string) {
	if scale <= 1 {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(labelFg),
			Face: overlayFace,
			Dot:  fixed.P(x, y+glyphAscent),
		}
		d.DrawString(text)
		return
	}

	tmp := image.NewNRGBA(image.Rect(0, 0, glyphWidth*len(text), glyphHeight))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(labelFg),
		Face: overlayFace,
		Dot:  fixed.P(0, glyphAscent),
	}
	d.DrawString(text)

	rect := image.Rect(x, y, x+glyphWidth*len(text)*scale, y+glyphHeight*scale)
	xdraw.NearestNeighbor.Scale(dst, rect, tmp, tmp.Bounds(), xdraw.Over, nil)
}

// fillRect blends a translucent rectangle onto the canvas, clipped to it.
func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			blendPx(img, x, y, c)
		}
	}
}

// blendPx alpha-blends a colour onto one pixel, preserving the pixel's
// own alpha. Out-of-bounds coordinates are ignored.
func blendPx(img *image.NRGBA, x, y int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	i := (y-b.Min.Y)*img.Stride + (x-b.Min.X)*4
	a := float64(c.A) / 255.0
	img.Pix[i+0] = uint8(float64(img.Pix[i+0])*(1-a) + float64(c.R)*a + 0.5)
	img.Pix[i+1] = uint8(float64(img.Pix[i+1])*(1-a) + float64(c.G)*a + 0.5)
	img.Pix[i+2] = uint8(float64(img.Pix[i+2])*(1-a) + float64(c.B)*a + 0.5)
}
