// Package control provides feedback controllers that scene scripts use to
// steer entities.
//
//	pid := control.NewPID(16, 0, 8, 4) // Kp, Ki, Kd, setpoint
//	thrust := pid.Update(e.Transform.Position.Y, dt)
package control
