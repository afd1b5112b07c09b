package driver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrilcaoyang/xarmctl/internal/arm"
	"github.com/cyrilcaoyang/xarmctl/internal/driver"
	"github.com/cyrilcaoyang/xarmctl/internal/errors"
)

func TestSimConnectLifecycle(t *testing.T) {
	sim := driver.NewSim(arm.Model6)

	status, err := sim.Status()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	require.NoError(t, sim.Connect())
	status, err = sim.Status()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, driver.StateReady, status.State)

	require.NoError(t, sim.Disconnect())
	status, _ = sim.Status()
	assert.False(t, status.Connected)
}

func TestSimMotionRequiresConnection(t *testing.T) {
	sim := driver.NewSim(arm.Model6)

	err := sim.SetPose(arm.Pose{X: 200, Z: 300, Roll: 180}, 100, true, false)
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotConnected, errors.CodeOf(err))
}

func TestSimMotionReadback(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())

	target := arm.Pose{X: 250, Y: 100, Z: 400, Roll: 180}
	require.NoError(t, sim.SetPose(target, 100, true, false))

	pose, err := sim.Position()
	require.NoError(t, err)
	assert.Equal(t, target, pose)

	joints := arm.JointVector{10, 20, -30, 0, 0, 0}
	require.NoError(t, sim.SetJointAngles(joints, 20, 500, true))

	got, err := sim.JointAngles()
	require.NoError(t, err)
	assert.Equal(t, joints, got)
}

func TestSimRelativePose(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())

	require.NoError(t, sim.SetPose(arm.Pose{X: -50, Z: 20}, 100, true, true))

	pose, _ := sim.Position()
	assert.InDelta(t, 250.0, pose.X, 0.001, "home X 300 offset by -50")
	assert.InDelta(t, 320.0, pose.Z, 0.001)
}

func TestSimCheckOnlyDoesNotMove(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())
	require.NoError(t, sim.SetCheckOnly(true))

	require.NoError(t, sim.SetPose(arm.Pose{X: 500, Z: 100, Roll: 180}, 100, true, false))

	pose, _ := sim.Position()
	assert.InDelta(t, 300.0, pose.X, 0.001, "dry-run mode leaves the arm parked at home")
}

func TestSimGoHome(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())
	require.NoError(t, sim.SetJointAngles(arm.JointVector{10, 10, -10, 0, 0, 0}, 20, 500, true))

	require.NoError(t, sim.GoHome(true))

	joints, _ := sim.JointAngles()
	assert.Equal(t, arm.JointVector{0, 0, 0, 0, 0, 0}, joints)
}

func TestSimFaultInjection(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())

	sim.InjectFault(31, 0)

	status, _ := sim.Status()
	assert.Equal(t, 31, status.FaultCode)

	select {
	case ev := <-sim.Events():
		assert.Equal(t, driver.EventFault, ev.Type)
		assert.Equal(t, 31, ev.FaultCode)
	default:
		t.Fatal("expected a fault event on the channel")
	}

	require.NoError(t, sim.ClearFault())
	status, _ = sim.Status()
	assert.Zero(t, status.FaultCode)
}

func TestSimEventBufferDropsOldest(t *testing.T) {
	sim := driver.NewSim(arm.Model6)

	// Overfill the buffer; the newest events must survive.
	for i := 1; i <= 40; i++ {
		sim.InjectFault(i, 0)
	}

	var last int
	for {
		select {
		case ev := <-sim.Events():
			last = ev.FaultCode
			continue
		default:
		}
		break
	}
	assert.Equal(t, 40, last, "newest event is never dropped")
}

func TestSimForceTorque(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())

	_, err := sim.ReadForceTorque()
	require.Error(t, err, "sensor disabled by default")

	require.NoError(t, sim.EnableForceTorque(true))
	require.NoError(t, sim.CalibrateForceTorque())

	sim.SetForceTorqueReading([6]float64{1, 2, 3, 0.1, 0.2, 0.3})
	reading, err := sim.ReadForceTorque()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, reading[2], 0.001)

	require.NoError(t, sim.EnableForceTorque(false))
	_, err = sim.ReadForceTorque()
	assert.Error(t, err)
}

func TestSimTrack(t *testing.T) {
	sim := driver.NewSim(arm.Model6)
	require.NoError(t, sim.Connect())

	require.NoError(t, sim.SetTrackPosition(350, 200, true))

	pos, err := sim.TrackPosition()
	require.NoError(t, err)
	assert.InDelta(t, 350.0, pos, 0.001)
}
