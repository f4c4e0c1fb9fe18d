package animation

import (
	"fmt"

	"github.com/san-kum/scenecore/internal/vmath"
)

type Channel int

const (
	PosX Channel = iota
	PosY
	PosZ
	RotY
	ScaleX
	ScaleY
	ScaleZ

	numChannels
)

var channelNames = [numChannels]string{"posX", "posY", "posZ", "rotY", "scaleX", "scaleY", "scaleZ"}

func (ch Channel) String() string {
	if ch < 0 || ch >= numChannels {
		return fmt.Sprintf("Channel(%d)", int(ch))
	}
	return channelNames[ch]
}

func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("animation: unknown channel %q", name)
}

// Channels lists every channel in declaration order.
func Channels() []Channel {
	out := make([]Channel, numChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// Pose is a sampled clip: position, yaw and scale.
type Pose struct {
	Position  vmath.Vec3
	RotationY float64
	Scale     vmath.Vec3
}

// IdentityPose has zero position and rotation and unit scale.
func IdentityPose() Pose {
	return Pose{Scale: vmath.One3}
}

type Clip struct {
	Name   string
	curves [numChannels]*Curve
}

func NewClip(name string) *Clip {
	c := &Clip{Name: name}
	for i := range c.curves {
		c.curves[i] = &Curve{}
	}
	return c
}

// AddKeyframe appends a key to one channel. Out-of-range channels are
// ignored.
func (c *Clip) AddKeyframe(ch Channel, t, v float64) {
	if ch < 0 || ch >= numChannels {
		return
	}
	c.curves[ch].AddKey(t, v)
}

func (c *Clip) Curve(ch Channel) *Curve {
	if ch < 0 || ch >= numChannels {
		return nil
	}
	return c.curves[ch]
}

// Duration is the largest key time across all channels.
func (c *Clip) Duration() float64 {
	d := 0.0
	for _, cv := range c.curves {
		if cd := cv.Duration(); cd > d {
			d = cd
		}
	}
	return d
}

// Sample evaluates every channel at t. Channels without keys keep the
// identity value for their slot.
func (c *Clip) Sample(t float64) Pose {
	p := IdentityPose()
	eval := func(ch Channel, fallback float64) float64 {
		cv := c.curves[ch]
		if cv.Len() == 0 {
			return fallback
		}
		return cv.Evaluate(t)
	}

	p.Position = vmath.V3(eval(PosX, 0), eval(PosY, 0), eval(PosZ, 0))
	p.RotationY = eval(RotY, 0)
	p.Scale = vmath.V3(eval(ScaleX, 1), eval(ScaleY, 1), eval(ScaleZ, 1))
	return p
}
