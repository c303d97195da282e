// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"errors"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Render draws the scene onto dc: the background, the clip object's shadow,
// every object clipped to the clip object, and finally the controls of the
// active object above the clip.
func (s *Scene) Render(dc *gg.Context) error {
	if s.disposed {
		return ErrClosed
	}
	if bg, ok := s.style.Background.RGBA(); ok {
		dc.ClearWithColor(bg)
	} else {
		dc.Clear()
	}

	var errs []error
	dc.Push()
	dc.SetTransform(s.viewport)
	if s.clip != nil {
		if err := s.drawShadow(dc, s.clip); err != nil {
			errs = append(errs, err)
		}
		b := s.clip.Bounds()
		dc.ClipRect(b.X, b.Y, b.W, b.H)
	}
	for _, o := range s.objects {
		if o != s.clip && o.Shadow != nil {
			if err := s.drawShadow(dc, o); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.drawObject(dc, o); err != nil {
			errs = append(errs, err)
		}
	}
	dc.Pop()

	if s.active != nil && s.active.HasControls {
		if err := s.drawControls(dc, s.active); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) drawObject(dc *gg.Context, o *Object) error {
	dc.Push()
	defer dc.Pop()
	dc.Translate(o.Left, o.Top)
	dc.Scale(o.ScaleX, o.ScaleY)

	in := o.strokeWidth() / 2
	switch o.Kind {
	case KindCircle:
		dc.DrawCircle(in+o.Radius, in+o.Radius, o.Radius)
	case KindRect:
		dc.DrawRectangle(in, in, o.Width, o.Height)
	case KindTriangle:
		dc.MoveTo(in, in+o.Height)
		dc.LineTo(in+o.Width/2, in)
		dc.LineTo(in+o.Width, in+o.Height)
		dc.ClosePath()
	case KindPath:
		tracePath(dc, o.Points, in)
	case KindImage:
		if o.Image != nil {
			dc.DrawImageEx(o.Image, gg.DrawImageOptions{
				X:             in,
				Y:             in,
				DstWidth:      o.Width,
				DstHeight:     o.Height,
				Interpolation: gg.InterpBilinear,
				Opacity:       1.0,
				BlendMode:     gg.BlendNormal,
			})
		}
		dc.DrawRectangle(in, in, o.Width, o.Height)
	case KindText:
		return s.drawText(dc, o, in)
	}
	return paint(dc, o)
}

// paint fills then strokes the current path with o's colors and clears it.
func paint(dc *gg.Context, o *Object) error {
	defer dc.ClearPath()
	if o.Kind != KindImage {
		if fill, ok := o.Fill.RGBA(); ok {
			dc.SetColor(fill)
			if err := dc.FillPreserve(); err != nil {
				return err
			}
		}
	}
	stroke, ok := o.Stroke.RGBA()
	if !ok || o.StrokeWidth <= 0 {
		return nil
	}
	if o.Kind == KindPath {
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
	} else {
		dc.SetLineCap(gg.LineCapButt)
		dc.SetLineJoin(gg.LineJoinMiter)
	}
	dc.SetColor(stroke)
	dc.SetLineWidth(o.StrokeWidth)
	return dc.StrokePreserve()
}

// tracePath builds a smoothed polyline: quadratic segments through the
// midpoints of consecutive points, ending with a straight segment.
func tracePath(dc *gg.Context, pts []gg.Point, in float64) {
	if len(pts) == 0 {
		return
	}
	at := func(p gg.Point) gg.Point { return gg.Pt(p.X+in, p.Y+in) }
	p0 := at(pts[0])
	dc.MoveTo(p0.X, p0.Y)
	for i := 1; i < len(pts)-1; i++ {
		c := at(pts[i])
		mid := c.Lerp(at(pts[i+1]), 0.5)
		dc.QuadraticTo(c.X, c.Y, mid.X, mid.Y)
	}
	last := at(pts[len(pts)-1])
	dc.LineTo(last.X, last.Y)
}

// textPad is the margin, in device pixels, around a rendered text run for
// glyph overhang and antialiasing.
const textPad = 2

// drawText rasterizes the text in device space into an offscreen buffer
// and composites it with DrawImage, which goes through the fill pipeline
// and therefore honors the current clip. The baseline origin is transformed
// by the current matrix and the face is sized by the matrix's vertical scale.
func (s *Scene) drawText(dc *gg.Context, o *Object, in float64) error {
	fill, ok := o.Fill.RGBA()
	if !ok || o.Text == "" {
		return nil
	}
	face := s.fonts.Face(o.FontFamily, o.FontSize)
	if face == nil {
		return nil
	}
	m := face.Metrics()
	baseline := in + (o.Height-(m.Ascent+m.Descent))/2 + m.Ascent
	x, y := dc.TransformPoint(in, baseline)

	ctm := dc.GetTransform()
	scale := math.Hypot(ctm.B, ctm.E)
	if scale <= 0 {
		return nil
	}
	face = s.fonts.Face(o.FontFamily, o.FontSize*scale)
	if face == nil {
		return nil
	}
	fm := face.Metrics()
	w, _ := text.Measure(o.Text, face)
	slack := textPad + math.Ceil(fm.Ascent/4)

	// Device rectangle of the run, cut to the surface.
	x0 := math.Max(math.Floor(x-slack), 0)
	y0 := math.Max(math.Floor(y-fm.Ascent-slack), 0)
	x1 := math.Min(math.Ceil(x+w+slack), float64(dc.Width()))
	y1 := math.Min(math.Ceil(y+fm.Descent+slack), float64(dc.Height()))
	if x1 <= x0 || y1 <= y0 {
		return nil
	}

	off := gg.NewContext(int(x1-x0), int(y1-y0))
	defer off.Close()
	off.SetFont(face)
	off.SetColor(fill)
	off.DrawString(o.Text, x-x0, y-y0)
	if err := off.FlushGPU(); err != nil {
		return err
	}

	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.DrawImage(gg.ImageBufFromImage(off.Image()), x0, y0)
	return nil
}

// drawShadow approximates a blurred box shadow with concentric translucent
// rectangles around the object's bounds.
func (s *Scene) drawShadow(dc *gg.Context, o *Object) error {
	if o.Shadow == nil {
		return nil
	}
	col, ok := o.Shadow.Color.RGBA()
	if !ok {
		return nil
	}
	b := o.Bounds()
	b.X += o.Shadow.OffsetX
	b.Y += o.Shadow.OffsetY

	steps := int(math.Ceil(o.Shadow.Blur))
	if steps < 1 {
		dc.SetColor(col)
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		return dc.Fill()
	}
	layer := col
	layer.A = col.A / float64(steps)
	for i := steps; i >= 1; i-- {
		d := float64(i)
		dc.SetColor(layer)
		dc.DrawRectangle(b.X-d, b.Y-d, b.W+2*d, b.H+2*d)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// handlePoints returns the surface positions of the selection handles:
// four corners, four edge midpoints and the rotation handle.
func (s *Scene) handlePoints(o *Object) (corners [4]gg.Point, handles []gg.Point) {
	b := o.Bounds()
	corners = [4]gg.Point{
		s.ToSurface(gg.Pt(b.X, b.Y)),
		s.ToSurface(gg.Pt(b.X+b.W, b.Y)),
		s.ToSurface(gg.Pt(b.X+b.W, b.Y+b.H)),
		s.ToSurface(gg.Pt(b.X, b.Y+b.H)),
	}
	handles = make([]gg.Point, 0, 9)
	for i, c := range corners {
		handles = append(handles, c, c.Lerp(corners[(i+1)%4], 0.5))
	}
	top := corners[0].Lerp(corners[1], 0.5)
	handles = append(handles, gg.Pt(top.X, top.Y-s.style.RotateOffset))
	return corners, handles
}

func (s *Scene) drawControls(dc *gg.Context, o *Object) error {
	st := s.style
	corners, handles := s.handlePoints(o)

	dc.Push()
	defer dc.Pop()
	dc.Identity()

	if border, ok := st.BorderColor.RGBA(); ok {
		dc.MoveTo(corners[0].X, corners[0].Y)
		for _, c := range corners[1:] {
			dc.LineTo(c.X, c.Y)
		}
		dc.ClosePath()
		dc.SetColor(border)
		dc.SetLineCap(gg.LineCapButt)
		dc.SetLineJoin(gg.LineJoinMiter)
		dc.SetLineWidth(st.BorderScaleFactor)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}

	half := st.CornerSize / 2
	for _, h := range handles {
		if st.CornerStyle == CornerCircle {
			dc.DrawCircle(h.X, h.Y, half)
		} else {
			dc.DrawRectangle(h.X-half, h.Y-half, st.CornerSize, st.CornerSize)
		}
		if fill, ok := st.CornerColor.RGBA(); ok && !st.TransparentCorners {
			dc.SetColor(fill)
			if err := dc.FillPreserve(); err != nil {
				dc.ClearPath()
				return err
			}
		}
		if stroke, ok := st.CornerStrokeColor.RGBA(); ok {
			dc.SetColor(stroke)
			dc.SetLineWidth(1)
			if err := dc.StrokePreserve(); err != nil {
				dc.ClearPath()
				return err
			}
		}
		dc.ClearPath()
	}
	return nil
}
