package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/scenecore/internal/sim"
)

func bowl(ctx context.Context, p map[string]float64) (*sim.Result, error) {
	x, y := p["x"]-1, p["y"]+2
	return &sim.Result{Metrics: map[string]float64{"cost": x*x + y*y}}, nil
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{{-1, 0, 1, 2}, {-3, -2, -1}})
	require.NoError(t, err)
	assert.Equal(t, 12, g.Size())

	params, best, err := g.Search(context.Background(), bowl, "cost")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 1, "y": -2}, params)
	assert.Zero(t, best)
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{0, 1, 2}})
	require.NoError(t, err)

	eval := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		if p["x"] == 1 {
			return nil, errors.New("diverged")
		}
		return bowl(ctx, map[string]float64{"x": p["x"], "y": -2})
	}
	params, best, err := g.Search(context.Background(), eval, "cost")
	require.NoError(t, err)
	assert.Equal(t, 1.0, best)
	assert.Equal(t, 0.0, params["x"])
}

func TestGridSearchNoCandidate(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{0}})
	require.NoError(t, err)

	_, _, err = g.Search(context.Background(), bowl, "missing")
	assert.True(t, errors.Is(err, ErrNoCandidate))
}

func TestGridSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{"x"}, [][]float64{{0, 1}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, bowl, "cost")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch([]string{"x", "y"}, [][]float64{{1}})
	assert.Error(t, err)
	_, err = NewGridSearch([]string{"x"}, [][]float64{{}})
	assert.Error(t, err)
}
