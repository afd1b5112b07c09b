package safety

import (
	"io"
	"math"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"gopkg.in/yaml.v3"
)

// CheckWorkspaceCollision reports whether the pose's position falls inside
// any collision zone, or whether the pose fails envelope validation at all.
// The returned name identifies the offending zone, or is empty when the
// collision comes from an envelope violation. Side-effect free.
func CheckWorkspaceCollision(p arm.Pose, env Envelope, zones []Zone) (bool, string) {
	if err := ValidatePose(p, env); err != nil {
		return true, ""
	}

	for _, zone := range zones {
		if zone.X.Contains(p.X) && zone.Y.Contains(p.Y) && zone.Z.Contains(p.Z) {
			return true, zone.Name
		}
	}

	return false, ""
}

// CheckJointCollision reports whether the joint vector fails limit validation
// or matches any self-collision rule. The returned name identifies the rule,
// or is empty for a plain limit violation. Side-effect free.
func CheckJointCollision(joints arm.JointVector, limits []arm.Range, rules []SelfCollisionRule) (bool, string) {
	if err := ValidateJoints(joints, limits); err != nil {
		return true, ""
	}

	for _, rule := range rules {
		if ruleMatches(rule, joints) {
			return true, rule.Name
		}
	}

	return false, ""
}

func ruleMatches(rule SelfCollisionRule, joints arm.JointVector) bool {
	if len(rule.Conditions) == 0 {
		return false
	}

	for _, cond := range rule.Conditions {
		idx := cond.Joint - 1
		if idx < 0 || idx >= len(joints) {
			return false
		}

		angle := joints[idx]
		switch cond.Op {
		case "gt":
			if !(angle > cond.Value) {
				return false
			}
		case "lt":
			if !(angle < cond.Value) {
				return false
			}
		case "abs_gt":
			if !(math.Abs(angle) > cond.Value) {
				return false
			}
		case "abs_lt":
			if !(math.Abs(angle) < cond.Value) {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// LoadZones parses a zone-table document. Zone tables are site configuration,
// kept separate from the main settings file.
func LoadZones(r io.Reader) (ZoneSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ZoneSet{}, err
	}

	var zones ZoneSet
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return ZoneSet{}, err
	}

	return zones, nil
}

// DefaultZones mirrors the stock site layout: the work table below the base
// plane and the mounting column around the origin.
func DefaultZones() ZoneSet {
	return ZoneSet{
		Collision: []Zone{
			{Name: "table", X: arm.Range{Min: -400, Max: 400}, Y: arm.Range{Min: -400, Max: 400}, Z: arm.Range{Min: -50, Max: 0}},
			{Name: "base", X: arm.Range{Min: -150, Max: 150}, Y: arm.Range{Min: -150, Max: 150}, Z: arm.Range{Min: 0, Max: 100}},
		},
	}
}
