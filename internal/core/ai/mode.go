package ai

import "fmt"

// Mode is the controller's current behaviour.
type Mode uint8

const (
	ModeWaypoint Mode = iota
	ModeAttack
	ModeSeekPowerup
	// ModeStuck is left only through Controller.Reset.
	ModeStuck
)

func (m Mode) String() string {
	switch m {
	case ModeWaypoint:
		return "Waypoint"
	case ModeAttack:
		return "Attack"
	case ModeSeekPowerup:
		return "SeekPowerup"
	case ModeStuck:
		return "Stuck"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode maps an authored mode name to a Mode. An empty name is the
// default. Unknown names fall back to ModeWaypoint with ok set to false so
// the caller can report them.
func ParseMode(name string) (mode Mode, ok bool) {
	switch name {
	case "Waypoints", "Waypoint", "":
		return ModeWaypoint, true
	case "Chase", "Attack":
		return ModeAttack, true
	case "SeekPowerup":
		return ModeSeekPowerup, true
	case "Stuck":
		return ModeStuck, true
	default:
		return ModeWaypoint, false
	}
}
