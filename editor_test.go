package ggedit

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggedit/scene"
	"github.com/google/uuid"
)

func newTestHost(t *testing.T, opts ...HostOption) *Host {
	t.Helper()
	h, err := NewHost(400, 300, opts...)
	if err != nil {
		t.Fatalf("NewHost() error: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestNilEditor(t *testing.T) {
	var e *Editor
	checks := map[string]error{}
	_, checks["AddCircle"] = e.AddCircle()
	_, checks["AddRect"] = e.AddRect()
	_, checks["AddTriangle"] = e.AddTriangle()
	_, checks["AddText"] = e.AddText("#ff0000")
	_, checks["AddImage"] = e.AddImage(context.Background())
	checks["EnableDrawing"] = e.EnableDrawing("")
	checks["DisableDrawing"] = e.DisableDrawing()
	checks["SetColor"] = e.SetColor("#00ff00")
	checks["DeleteSelected"] = e.DeleteSelected()
	checks["Select"] = e.Select(uuid.New())
	checks["ClearSelection"] = e.ClearSelection()
	checks["EditText"] = e.EditText("x")
	checks["BringToFront"] = e.BringToFront()
	checks["PointerDown"] = e.PointerDown(1, 1)
	_, checks["PointerUp"] = e.PointerUp()
	for name, err := range checks {
		if !errors.Is(err, ErrNoSurface) {
			t.Errorf("%s on nil Editor error = %v, want ErrNoSurface", name, err)
		}
	}
	e.OnSelect(func(bool) {})()
	if _, ok := e.Selected(); ok {
		t.Error("Selected() on nil Editor reported a selection")
	}
	if e.Objects() != nil {
		t.Error("Objects() on nil Editor returned objects")
	}
}

func TestClosedHost(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Close")
	}
	if _, err := ed.AddCircle(); !errors.Is(err, ErrNoSurface) {
		t.Errorf("AddCircle() after Close error = %v, want ErrNoSurface", err)
	}
	if err := h.Resize(10, 10); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Resize() after Close error = %v, want ErrNoSurface", err)
	}
	if _, err := h.Snapshot(); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Snapshot() after Close error = %v, want ErrNoSurface", err)
	}
	if len(ed.Objects()) != 0 {
		t.Error("objects visible after Close")
	}
}

func TestNewHostInvalidDimensions(t *testing.T) {
	if _, err := NewHost(0, 100); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewHost(0, 100) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestCreationSelectsNewObject(t *testing.T) {
	tests := []struct {
		name string
		add  func(*Editor) (uuid.UUID, error)
		kind scene.Kind
	}{
		{"circle", (*Editor).AddCircle, scene.KindCircle},
		{"rect", (*Editor).AddRect, scene.KindRect},
		{"triangle", (*Editor).AddTriangle, scene.KindTriangle},
		{"text", func(e *Editor) (uuid.UUID, error) { return e.AddText("") }, scene.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(t)
			ed := h.Editor()
			id, err := tt.add(ed)
			if err != nil {
				t.Fatalf("add error: %v", err)
			}
			objs := ed.Objects()
			if len(objs) != 1 || objs[0].ID != id || objs[0].Kind != tt.kind {
				t.Fatalf("Objects() = %+v, want one %s", objs, tt.kind)
			}
			sel, ok := ed.Selected()
			if !ok || sel.ID != id {
				t.Errorf("Selected() = %v, %v, want the new object", sel.ID, ok)
			}
			want := h.ws.Center()
			got := sel.Center()
			if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
				t.Errorf("object center = %v, want workspace center %v", got, want)
			}
		})
	}
}

func TestAddCircleDefaults(t *testing.T) {
	h := newTestHost(t)
	if _, err := h.Editor().AddCircle(); err != nil {
		t.Fatal(err)
	}
	c, _ := h.Editor().Selected()
	if c.Radius != CircleRadius || c.StrokeWidth != 2 || c.Fill != "rgba(0,0,0,1)" || c.Stroke != "rgba(0,0,0,1)" {
		t.Errorf("circle = radius %v stroke %v fill %q stroke %q", c.Radius, c.StrokeWidth, c.Fill, c.Stroke)
	}
}

func TestAddTextDefaults(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if _, err := ed.AddText(""); err != nil {
		t.Fatal(err)
	}
	txt, _ := ed.Selected()
	if txt.Text != DefaultText || txt.FontFamily != DefaultFontFamily || txt.FontSize != DefaultFontSize {
		t.Errorf("text = %q %q %v", txt.Text, txt.FontFamily, txt.FontSize)
	}
	if txt.Fill != DefaultColor {
		t.Errorf("fill = %q, want %q", txt.Fill, DefaultColor)
	}
	if _, err := ed.AddText("bogus"); !errors.Is(err, scene.ErrInvalidColor) {
		t.Errorf("AddText(bogus) error = %v, want ErrInvalidColor", err)
	}
	if n := len(ed.Objects()); n != 1 {
		t.Errorf("objects after rejected AddText = %d, want 1", n)
	}
}

func TestSetColorOnText(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	id, err := ed.AddText("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if err := ed.Select(id); err != nil {
		t.Fatal(err)
	}
	before, _ := ed.Selected()
	if err := ed.SetColor("#00ff00"); err != nil {
		t.Fatalf("SetColor() error: %v", err)
	}
	after, _ := ed.Selected()
	if after.Fill != "#00ff00" {
		t.Errorf("fill = %q, want #00ff00", after.Fill)
	}
	if after.Stroke != before.Stroke {
		t.Errorf("stroke changed from %q to %q", before.Stroke, after.Stroke)
	}
}

func TestSetColorOnCircle(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if err := ed.SetColor("#00ff00"); err != nil {
		t.Fatal(err)
	}
	c, _ := ed.Selected()
	if c.Fill != "#00ff00" {
		t.Errorf("fill = %q, want #00ff00", c.Fill)
	}
}

func TestSetColorOnPath(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if err := ed.EnableDrawing(""); err != nil {
		t.Fatal(err)
	}
	id, err := ed.Stroke(gg.Pt(150, 100), gg.Pt(200, 150), gg.Pt(250, 120))
	if err != nil || id == uuid.Nil {
		t.Fatalf("Stroke() = %v, %v", id, err)
	}
	if err := ed.DisableDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := ed.Select(id); err != nil {
		t.Fatal(err)
	}
	if err := ed.SetColor("#0000ff"); err != nil {
		t.Fatal(err)
	}
	p, _ := ed.Selected()
	if p.Stroke != "#0000ff" {
		t.Errorf("stroke = %q, want #0000ff", p.Stroke)
	}
	if !p.Fill.IsNone() {
		t.Errorf("fill = %q, want none", p.Fill)
	}
}

func TestSetColorWithoutSelection(t *testing.T) {
	h := newTestHost(t)
	if err := h.Editor().SetColor("#00ff00"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("SetColor() error = %v, want ErrNoSelection", err)
	}
}

func TestSetColorInvalid(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if err := ed.SetColor("nope"); !errors.Is(err, scene.ErrInvalidColor) {
		t.Errorf("SetColor(nope) error = %v, want ErrInvalidColor", err)
	}
	c, _ := ed.Selected()
	if c.Fill != "rgba(0,0,0,1)" {
		t.Errorf("fill changed to %q", c.Fill)
	}
}

func TestDrawingUsesLatestColor(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if err := ed.EnableDrawing("#ff0000"); err != nil {
		t.Fatal(err)
	}
	first, err := ed.Stroke(gg.Pt(100, 100), gg.Pt(120, 140))
	if err != nil {
		t.Fatal(err)
	}
	if err := ed.SetColor("#00ff00"); err != nil {
		t.Fatalf("SetColor() in drawing mode error: %v", err)
	}
	second, err := ed.Stroke(gg.Pt(200, 100), gg.Pt(220, 140))
	if err != nil {
		t.Fatal(err)
	}

	strokes := map[uuid.UUID]scene.Color{}
	for _, o := range ed.Objects() {
		if o.Kind == scene.KindPath {
			strokes[o.ID] = o.Stroke
			if o.StrokeWidth != scene.DefaultBrushWidth {
				t.Errorf("stroke width = %v, want %v", o.StrokeWidth, scene.DefaultBrushWidth)
			}
		}
	}
	if strokes[first] != "#ff0000" {
		t.Errorf("first stroke = %q, want #ff0000 (not recolored)", strokes[first])
	}
	if strokes[second] != "#00ff00" {
		t.Errorf("second stroke = %q, want #00ff00", strokes[second])
	}
}

func TestPointerIgnoredOutsideDrawing(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	id, err := ed.Stroke(gg.Pt(10, 10), gg.Pt(50, 50))
	if err != nil || id != uuid.Nil {
		t.Errorf("Stroke() outside drawing mode = %v, %v", id, err)
	}
	if len(ed.Objects()) != 0 {
		t.Error("stroke outside drawing mode added an object")
	}
}

func TestDeleteSelected(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()

	if err := ed.DeleteSelected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("DeleteSelected() with no selection error = %v, want ErrNoSelection", err)
	}

	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddRect(); err != nil {
		t.Fatal(err)
	}
	if err := ed.ClearSelection(); err != nil {
		t.Fatal(err)
	}
	if err := ed.DeleteSelected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("DeleteSelected() after ClearSelection error = %v, want ErrNoSelection", err)
	}
	if n := len(ed.Objects()); n != 2 {
		t.Fatalf("objects = %d, want 2", n)
	}

	if err := ed.Select(ed.Objects()[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := ed.DeleteSelected(); err != nil {
		t.Fatalf("DeleteSelected() error: %v", err)
	}
	if n := len(ed.Objects()); n != 1 {
		t.Errorf("objects after delete = %d, want 1", n)
	}
	if _, ok := ed.Selected(); ok {
		t.Error("selection not cleared after delete")
	}
}

func TestSelectErrors(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if err := ed.Select(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select(unknown) error = %v, want ErrNotFound", err)
	}
	if err := ed.Select(h.ws.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select(workspace) error = %v, want ErrNotFound", err)
	}
}

func TestEditText(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	if err := ed.EditText("x"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("EditText() with no selection error = %v, want ErrNoSelection", err)
	}
	if _, err := ed.AddText(""); err != nil {
		t.Fatal(err)
	}
	if err := ed.EditText("Cafe\u0301"); err != nil {
		t.Fatalf("EditText() error: %v", err)
	}
	txt, _ := ed.Selected()
	if txt.Text != "Caf\u00e9" {
		t.Errorf("text = %q, want composed %q", txt.Text, "Caf\u00e9")
	}
	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if err := ed.EditText("x"); !errors.Is(err, ErrNotText) {
		t.Errorf("EditText() on circle error = %v, want ErrNotText", err)
	}
}

func TestBringToFront(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()
	first, _ := ed.AddRect()
	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if err := ed.Select(first); err != nil {
		t.Fatal(err)
	}
	if err := ed.BringToFront(); err != nil {
		t.Fatal(err)
	}
	objs := ed.Objects()
	if objs[len(objs)-1].ID != first {
		t.Error("BringToFront did not move the selection to the top")
	}
}

func TestOnSelectSubscribers(t *testing.T) {
	h := newTestHost(t)
	ed := h.Editor()

	var a, b []bool
	offA := ed.OnSelect(func(s bool) { a = append(a, s) })
	ed.OnSelect(func(s bool) {
		b = append(b, s)
		// Callbacks run outside the host lock.
		_, _ = ed.Selected()
	})

	if _, err := ed.AddCircle(); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.AddRect(); err != nil {
		t.Fatal(err)
	}
	if err := ed.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	offA()
	if err := ed.Select(ed.Objects()[0].ID); err != nil {
		t.Fatal(err)
	}

	if len(a) != 3 || !a[0] || !a[1] || a[2] {
		t.Errorf("first subscriber got %v, want [true true false]", a)
	}
	if len(b) != 4 || !b[3] {
		t.Errorf("second subscriber got %v, want [true true false true]", b)
	}
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAddImage(t *testing.T) {
	data := encodeTestPNG(t, 600, 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	h := newTestHost(t, WithImageURL(srv.URL+"/placeholder.png"), WithHTTPClient(srv.Client()))
	ed := h.Editor()
	id, err := ed.AddImage(context.Background())
	if err != nil {
		t.Fatalf("AddImage() error: %v", err)
	}
	objs := ed.Objects()
	if len(objs) != 1 || objs[0].ID != id || objs[0].Kind != scene.KindImage {
		t.Fatalf("Objects() = %+v, want one image", objs)
	}
	w, ht := objs[0].ScaledSize()
	if math.Abs(w-ImageWidth) > 1e-9 || math.Abs(ht-200) > 1e-9 {
		t.Errorf("scaled size = %v x %v, want 300 x 200", w, ht)
	}
	if objs[0].Width != 600 {
		t.Errorf("image resampled to width %v, want natural 600", objs[0].Width)
	}
	if sel, ok := ed.Selected(); !ok || sel.ID != id {
		t.Error("image is not the active selection")
	}
}

func TestAddImageFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newTestHost(t, WithImageURL(srv.URL), WithHTTPClient(srv.Client()))
	ed := h.Editor()
	if _, err := ed.AddImage(context.Background()); !errors.Is(err, ErrImageLoad) {
		t.Errorf("AddImage() error = %v, want ErrImageLoad", err)
	}
	if len(ed.Objects()) != 0 {
		t.Error("failed load added an object")
	}
}

func TestCloseDuringImageLoad(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-r.Context().Done()
	}))
	defer srv.Close()

	h, err := NewHost(400, 300, WithImageURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	ed := h.Editor()
	done := make(chan error, 1)
	go func() {
		_, err := ed.AddImage(context.Background())
		done <- err
	}()

	<-started
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := <-done; !errors.Is(err, ErrNoSurface) {
		t.Errorf("AddImage() after Close error = %v, want ErrNoSurface", err)
	}
}

func TestAddImageCanceledByCaller(t *testing.T) {
	h := newTestHost(t, WithImageURL("http://127.0.0.1:1/never.png"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Editor().AddImage(ctx)
	if !errors.Is(err, ErrImageLoad) || !errors.Is(err, context.Canceled) {
		t.Errorf("AddImage() error = %v, want ErrImageLoad wrapping context.Canceled", err)
	}
}
