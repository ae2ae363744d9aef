package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Sizes of the plot in pixels.
const (
	plotHeight = 240 // height of the bar area
	marginL    = 48
	marginR    = 16
	marginT    = 32
	marginB    = 36
	minBarW    = 2
	maxWidth   = 4000
	fontSize   = 11
)

var (
	barColour  = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
	axisColour = color.Gray{0x40}
)

var (
	fontOnce sync.Once
	plotFont *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() { plotFont, fontErr = freetype.ParseFont(goregular.TTF) })
	return plotFont, fontErr
}

// fillRect fills r in img with c.
func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// tickStep picks a spacing for residue labels so they do not overlap.
func tickStep(n, barW int) int {
	const minGap = 40 // pixels between labels
	for _, step := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000} {
		if step*barW >= minGap || step >= n {
			return step
		}
	}
	return 1000
}

// WritePlot draws vals, which should be in [0,1], as a bar chart and
// writes it as a PNG. Residue numbers along the bottom start from 1.
func WritePlot(w io.Writer, vals []float64, title string) error {
	if len(vals) == 0 {
		return fmt.Errorf("nothing to plot for %q", title)
	}
	barW := max(minBarW, min(12, (maxWidth-marginL-marginR)/len(vals)))
	width := marginL + marginR + barW*len(vals)
	height := marginT + plotHeight + marginB
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), color.White)

	base := marginT + plotHeight
	for i, v := range vals {
		v = max(0, min(1, v))
		top := base - int(v*plotHeight+0.5)
		x0 := marginL + i*barW
		fillRect(img, image.Rect(x0, top, x0+max(1, barW-1), base), barColour)
	}
	fillRect(img, image.Rect(marginL-1, marginT, marginL, base+1), axisColour)
	fillRect(img, image.Rect(marginL-1, base, width-marginR, base+1), axisColour)

	f, err := loadFont()
	if err != nil {
		return fmt.Errorf("plot font: %w", err)
	}
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)
	label := func(s string, x, y int) error {
		_, err := c.DrawString(s, freetype.Pt(x, y))
		return err
	}
	if err := label(title, marginL, marginT-12); err != nil {
		return err
	}
	for _, yl := range []struct {
		s string
		v float64
	}{{"0", 0}, {"0.5", 0.5}, {"1", 1}} {
		y := base - int(yl.v*plotHeight) + fontSize/2 - 1
		if err := label(yl.s, 8, y); err != nil {
			return err
		}
	}
	step := tickStep(len(vals), barW)
	for r := step; r <= len(vals); r += step {
		x := marginL + (r-1)*barW
		fillRect(img, image.Rect(x, base, x+1, base+4), axisColour)
		if err := label(strconv.Itoa(r), x-4, base+16); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}
