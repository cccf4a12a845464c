package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"
	"github.com/tomz197/mooncats/internal/sim"
)

// testArea is 2000×1400 centred on the origin; on a 200×70 canvas one pixel
// covers 10 world units.
var testArea = r2.RectFromPoints(r2.Point{X: -1000, Y: -700}, r2.Point{X: 1000, Y: 700})

func TestCanvasMapping(t *testing.T) {
	c := NewCanvas(200, 70, testArea)

	tests := []struct {
		name  string
		p     r2.Point
		wantX int
		wantY int
	}{
		{"origin", r2.Point{}, 100, 70},
		{"top right", r2.Point{X: 999, Y: 699}, 199, 0},
		{"bottom left", r2.Point{X: -1000, Y: -699}, 0, 139},
		{"y points up", r2.Point{X: 0, Y: 100}, 100, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Clear()
			c.Dot(tt.p)
			if !c.Pixel(tt.wantX, tt.wantY) {
				t.Errorf("pixel (%d, %d) not set for %v", tt.wantX, tt.wantY, tt.p)
			}
		})
	}

	if col, row := c.Cell(r2.Point{}); col != 101 || row != 36 {
		t.Errorf("Cell(origin) = (%d, %d), want (101, 36)", col, row)
	}
}

func TestCanvasIgnoresOutsidePoints(t *testing.T) {
	c := NewCanvas(20, 7, testArea)
	c.Dot(r2.Point{X: 5000, Y: 0})
	c.Dot(r2.Point{X: 0, Y: -5000})
	c.Line(r2.Point{X: -5000, Y: 0}, r2.Point{X: -4000, Y: 0})
	for y := 0; y < 14; y++ {
		for x := 0; x < 20; x++ {
			if c.Pixel(x, y) {
				t.Fatalf("pixel (%d, %d) set by an off-canvas point", x, y)
			}
		}
	}
}

func TestFillCircleAndLine(t *testing.T) {
	c := NewCanvas(200, 70, testArea)

	c.FillCircle(r2.Point{}, 75) // 7.5 pixels
	if !c.Pixel(106, 70) || !c.Pixel(100, 64) {
		t.Error("circle interior not filled")
	}
	if c.Pixel(109, 70) || c.Pixel(100, 79) {
		t.Error("circle spills past its radius")
	}

	c.Clear()
	c.FillCircle(r2.Point{X: 500, Y: 0}, 1) // sub-pixel body
	if !c.Pixel(150, 70) {
		t.Error("tiny body should still light one pixel")
	}

	c.Clear()
	c.Line(r2.Point{X: -500, Y: 0}, r2.Point{X: 500, Y: 0})
	for x := 50; x <= 150; x++ {
		if !c.Pixel(x, 70) {
			t.Fatalf("line gap at x=%d", x)
		}
	}
}

func TestCanvasResizeRescales(t *testing.T) {
	c := NewCanvas(200, 70, testArea)
	c.Resize(100, 35)
	if c.Cols() != 100 || c.Rows() != 35 {
		t.Fatalf("size = %dx%d", c.Cols(), c.Rows())
	}
	c.Dot(r2.Point{})
	if !c.Pixel(50, 35) {
		t.Error("origin should map to the new centre")
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(4, 1, r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 4, Y: 2}))
	c.Dot(r2.Point{X: 0.5, Y: 1.5}) // top pixel of cell 1
	c.Dot(r2.Point{X: 1.5, Y: 0.5}) // bottom pixel of cell 2
	c.Dot(r2.Point{X: 2.5, Y: 1.5}) // cell 3, both halves
	c.Dot(r2.Point{X: 2.5, Y: 0.5})

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	want := "\033[1;1H▀▄█ "
	if buf.String() != want {
		t.Errorf("render = %q, want %q", buf.String(), want)
	}
}

func TestChunkWriterMultiline(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	cw.WriteAt(3, 5, "ab\ncd")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "\033[5;3Hab\033[6;3Hcd"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func plainHUD() *HUD {
	return NewHUD(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func TestHealthBar(t *testing.T) {
	h := plainHUD()
	tests := []struct {
		health     float64
		wantFilled int
		wantPct    string
	}{
		{0.6, 6, "60%"},
		{1.5, 10, "100%"},
		{0, 0, "0%"},
	}
	for _, tt := range tests {
		bar := h.HealthBar(tt.health, 10)
		if got := strings.Count(bar, "█"); got != tt.wantFilled {
			t.Errorf("health %v: %d filled cells, want %d (%q)", tt.health, got, tt.wantFilled, bar)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.wantFilled {
			t.Errorf("health %v: %d empty cells, want %d", tt.health, got, 10-tt.wantFilled)
		}
		if !strings.Contains(bar, tt.wantPct) {
			t.Errorf("health %v: %q lacks %q", tt.health, bar, tt.wantPct)
		}
	}
}

func TestStatusAndBox(t *testing.T) {
	h := plainHUD()
	snap := &sim.Snapshot{Score: 42, Players: 3, SpawnInterval: 1.5}
	line := h.Status(snap, sim.Aim{Angle: 1.5707963267948966, Power: 650})
	for _, want := range []string{"Score 42", "Aim  90°", "Power 650", "Spawn 1.50s", "Players 3"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q lacks %q", line, want)
		}
	}

	box := h.Box("GAME OVER", "press r")
	if !strings.Contains(box, "GAME OVER") || !strings.Contains(box, "╭") {
		t.Errorf("box = %q", box)
	}
	if w, hgt := Size(box); w < len("GAME OVER") || hgt != 5 {
		t.Errorf("box size = %dx%d", w, hgt)
	}
}

func TestDrawScene(t *testing.T) {
	c := NewCanvas(200, 70, testArea)
	snap := &sim.Snapshot{
		Planet:   sim.Circle{Radius: 75},
		Moon:     sim.Circle{Pos: r2.Point{X: 600}, Radius: 40},
		Cats:     []sim.CatView{{Circle: sim.Circle{Pos: r2.Point{X: -500, Y: 500}, Radius: 10}}},
		Previews: map[int][]r2.Point{1: {{X: 0, Y: -500}}},
	}

	DrawScene(c, snap, 1)
	if !c.Pixel(160, 67) {
		t.Error("moon not drawn")
	}
	if !c.Pixel(50, 20) {
		t.Error("cat not drawn")
	}
	if !c.Pixel(100, 120) {
		t.Error("own preview not drawn")
	}

	DrawScene(c, snap, 2)
	if c.Pixel(100, 120) {
		t.Error("another client's preview drawn")
	}

	snap.Defeated = true
	DrawScene(c, snap, 1)
	if c.Pixel(160, 67) {
		t.Error("destroyed moon still drawn")
	}
}
