package animation

import "sort"

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Controller plays one looping clip at a time.
type Controller struct {
	clips   map[string]*Clip
	current *Clip
	time    float64
	state   State
}

func NewController() *Controller {
	return &Controller{clips: make(map[string]*Clip)}
}

// AddClip registers c under its name, replacing any clip with that name.
func (ac *Controller) AddClip(c *Clip) {
	if c == nil {
		return
	}
	ac.clips[c.Name] = c
}

func (ac *Controller) Clip(name string) (*Clip, bool) {
	c, ok := ac.clips[name]
	return c, ok
}

// ClipNames returns the registered clip names sorted.
func (ac *Controller) ClipNames() []string {
	names := make([]string, 0, len(ac.clips))
	for n := range ac.clips {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Play starts the named clip from time 0. Unknown names leave the
// controller untouched and return false.
func (ac *Controller) Play(name string) bool {
	c, ok := ac.clips[name]
	if !ok {
		return false
	}
	ac.current = c
	ac.time = 0
	ac.state = Playing
	return true
}

func (ac *Controller) Stop() {
	ac.state = Stopped
	ac.time = 0
}

func (ac *Controller) Pause() {
	if ac.state == Playing {
		ac.state = Paused
	}
}

func (ac *Controller) Resume() {
	if ac.state == Paused {
		ac.state = Playing
	}
}

// Update advances playback. Reaching the clip duration wraps to 0.
func (ac *Controller) Update(dt float64) {
	if ac.state != Playing || ac.current == nil {
		return
	}
	ac.time += dt
	if ac.time >= ac.current.Duration() {
		ac.time = 0
	}
}

// Pose samples the current clip, or returns the identity pose when nothing
// is loaded.
func (ac *Controller) Pose() Pose {
	if ac.current == nil {
		return IdentityPose()
	}
	return ac.current.Sample(ac.time)
}

func (ac *Controller) State() State { return ac.state }

func (ac *Controller) Time() float64 { return ac.time }

func (ac *Controller) Current() string {
	if ac.current == nil {
		return ""
	}
	return ac.current.Name
}

func (ac *Controller) IsPlaying() bool { return ac.state == Playing }
