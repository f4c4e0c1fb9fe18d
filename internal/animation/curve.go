package animation

// Keyframe is a single (time, value) sample.
type Keyframe struct {
	Time  float64 `json:"t" yaml:"t"`
	Value float64 `json:"v" yaml:"v"`
}

// Curve is a time-ordered list of keyframes evaluated by linear
// interpolation. Keys are kept in insertion order; callers add them sorted.
type Curve struct {
	keys []Keyframe
}

func NewCurve(keys ...Keyframe) *Curve {
	c := &Curve{}
	for _, k := range keys {
		c.AddKey(k.Time, k.Value)
	}
	return c
}

func (c *Curve) AddKey(t, v float64) {
	c.keys = append(c.keys, Keyframe{Time: t, Value: v})
}

func (c *Curve) Keys() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c *Curve) Len() int { return len(c.keys) }

// Duration is the time of the last key, or 0 for an empty curve.
func (c *Curve) Duration() float64 {
	d := 0.0
	for _, k := range c.keys {
		if k.Time > d {
			d = k.Time
		}
	}
	return d
}

// Evaluate returns 0 for an empty curve and clamps to the end keys outside
// their range.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	for i := 0; i < n-1; i++ {
		a, b := c.keys[i], c.keys[i+1]
		if t >= a.Time && t <= b.Time {
			span := b.Time - a.Time
			if span <= 0 {
				return b.Value
			}
			f := (t - a.Time) / span
			return a.Value + (b.Value-a.Value)*f
		}
	}
	return c.keys[n-1].Value
}
