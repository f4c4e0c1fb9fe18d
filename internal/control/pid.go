package control

import "math"

// PID is a scalar proportional-integral-derivative controller.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint float64
	// Limit clamps the output to [-Limit, Limit]. Zero leaves it unbounded.
	Limit float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, setpoint float64) *PID {
	return &PID{
		Kp:       kp,
		Ki:       ki,
		Kd:       kd,
		Setpoint: setpoint,
		first:    true,
	}
}

// Update returns the control output for a measurement taken dt seconds after
// the previous one. The first call has no derivative term.
func (p *PID) Update(measured, dt float64) float64 {
	err := p.Setpoint - measured

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.clamp(p.Kp*err + p.Ki*p.integral)
	}

	integral := p.integral + err*dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	u := p.Kp*err + p.Ki*integral + p.Kd*derivative
	out := p.clamp(u)
	// No integration while saturated.
	if out == u {
		p.integral = integral
	}
	return out
}

func (p *PID) clamp(u float64) float64 {
	if p.Limit <= 0 {
		return u
	}
	return math.Max(-p.Limit, math.Min(p.Limit, u))
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// Params returns the tunable gains by name.
func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"Kp":       p.Kp,
		"Ki":       p.Ki,
		"Kd":       p.Kd,
		"Setpoint": p.Setpoint,
	}
}

// SetParam adjusts a gain by name and reports whether the name was known.
func (p *PID) SetParam(name string, value float64) bool {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Setpoint":
		p.Setpoint = value
	default:
		return false
	}
	return true
}
