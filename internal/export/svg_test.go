package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/scenecore/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.SetPen("#ff0000")
	c.Set(0, 0)
	c.SetPen("")
	c.Set(7, 7)

	out := CanvasToSVG(c, 2)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Contains(t, out, `fill="#ff0000"`)
	assert.Contains(t, out, `fill="`+defaultInk+`"`)
	assert.Contains(t, out, `width="16" height="16"`)

	assert.Empty(t, CanvasToSVG(nil, 1))
}

func TestTrajectoriesToSVG(t *testing.T) {
	paths := []Path{
		{Name: "ball", Points: []Point{{0, 0}, {1, 1}, {2, 0}}},
		{Name: "gap", Stroke: "#123456", Points: []Point{{0, 1}, {math.NaN(), 0}, {2, 1}, {2, 2}}},
		{Name: "single", Points: []Point{{5, 5}}},
	}

	out := TrajectoriesToSVG(paths, 200, 100)
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, `stroke="#123456"`)
	assert.Contains(t, out, `stroke="`+palette[0]+`"`)
	assert.Contains(t, out, "<title>ball</title>")
	// The NaN sample starts a new subpath.
	assert.Equal(t, 3, strings.Count(out, `d="M`)+strings.Count(out, " M"))
}

func TestTrajectoriesToSVGEmpty(t *testing.T) {
	assert.Empty(t, TrajectoriesToSVG(nil, 10, 10))
	assert.Empty(t, TrajectoriesToSVG([]Path{{Points: []Point{{math.NaN(), 1}}}}, 10, 10))
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, "<svg/>"))
	assert.Equal(t, "<svg/>", buf.String())
	assert.Error(t, WriteSVG(&buf, ""))
}
