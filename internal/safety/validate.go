package safety

import (
	"fmt"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
)

// PoseError reports a pose component outside the envelope.
type PoseError struct {
	Axis  string
	Value float64
	Limit arm.Range
}

func (e *PoseError) Error() string {
	return fmt.Sprintf("%s value %g outside safety limits %s", e.Axis, e.Value, e.Limit)
}

// JointError reports a joint angle outside its model range. Joint is 1-based.
type JointError struct {
	Joint int
	Value float64
	Limit arm.Range
}

func (e *JointError) Error() string {
	return fmt.Sprintf("joint %d angle %g outside limits %s", e.Joint, e.Value, e.Limit)
}

// JointCountError reports a joint vector shorter than the model requires.
type JointCountError struct {
	Got  int
	Want int
}

func (e *JointCountError) Error() string {
	return fmt.Sprintf("need at least %d joint angles, got %d", e.Want, e.Got)
}

// SpeedError reports a speed outside its allowed range.
type SpeedError struct {
	Kind  string
	Value float64
	Limit arm.Range
}

func (e *SpeedError) Error() string {
	return fmt.Sprintf("%s %g outside limits %s", e.Kind, e.Value, e.Limit)
}

// TrackError reports an invalid linear-track position.
type TrackError struct {
	Position float64
	Limit    arm.Range
	Zone     string
}

func (e *TrackError) Error() string {
	if e.Zone != "" {
		return fmt.Sprintf("track position %gmm is in blocked danger zone %q", e.Position, e.Zone)
	}

	return fmt.Sprintf("track position %g outside limits %s", e.Position, e.Limit)
}

// ValidatePose checks every pose component against the envelope workspace.
// Returns nil when the pose is inside the envelope; the error names the
// first offending axis, its value and the violated range.
func ValidatePose(p arm.Pose, env Envelope) error {
	values := p.Array()
	for i, axis := range env.Workspace.Axes() {
		if !axis.Range.Contains(values[i]) {
			return &PoseError{Axis: axis.Name, Value: values[i], Limit: axis.Range}
		}
	}

	return nil
}

// ValidateJoints checks a joint vector against the per-joint limit table.
// Fails fast on the first out-of-range joint; the reported index is 1-based.
func ValidateJoints(joints arm.JointVector, limits []arm.Range) error {
	if len(joints) < len(limits) {
		return &JointCountError{Got: len(joints), Want: len(limits)}
	}

	for i, limit := range limits {
		if !limit.Contains(joints[i]) {
			return &JointError{Joint: i + 1, Value: joints[i], Limit: limit}
		}
	}

	return nil
}

// ValidateSpeed checks a speed value against its allowed range. Kind is used
// only for reporting ("tcp speed", "joint speed", "track speed").
func ValidateSpeed(kind string, speed float64, limit arm.Range) error {
	if !limit.Contains(speed) {
		return &SpeedError{Kind: kind, Value: speed, Limit: limit}
	}

	return nil
}

// ValidateTrackPosition checks a track target against the travel limits and
// the configured danger zones. Blocking zones reject the position; the
// returned warnings name any non-blocking zones the position crosses.
func ValidateTrackPosition(pos float64, limit arm.Range, zones []TrackDangerZone) (warnings []string, err error) {
	if !limit.Contains(pos) {
		return nil, &TrackError{Position: pos, Limit: limit}
	}

	for _, zone := range zones {
		if pos < zone.Start || pos > zone.End {
			continue
		}
		if zone.Block {
			return warnings, &TrackError{Position: pos, Zone: zone.Name}
		}
		warnings = append(warnings, fmt.Sprintf("track position %gmm is in danger zone %q", pos, zone.Name))
	}

	return warnings, nil
}
