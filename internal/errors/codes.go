package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrMissingConfig ErrorCode = "missing_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Driver errors
	ErrNotConnected    ErrorCode = "driver_not_connected"
	ErrConnectFailed   ErrorCode = "driver_connect_failed"
	ErrDriverFault     ErrorCode = "driver_fault"
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"

	// Component errors
	ErrComponentDisabled ErrorCode = "component_not_enabled"
	ErrUnknownLocation   ErrorCode = "unknown_location"
	ErrEnableFailed      ErrorCode = "component_enable_failed"
	ErrDisableFailed     ErrorCode = "component_disable_failed"
	ErrUnknownComponent  ErrorCode = "unknown_component"

	// Safety errors
	ErrPoseOutOfBounds  ErrorCode = "pose_out_of_bounds"
	ErrJointOutOfRange  ErrorCode = "joint_out_of_range"
	ErrTooFewJoints     ErrorCode = "too_few_joint_angles"
	ErrCollisionZone    ErrorCode = "collision_zone_violation"
	ErrSelfCollision    ErrorCode = "self_collision_detected"
	ErrTrackOutOfRange  ErrorCode = "track_position_out_of_range"
	ErrTrackDangerZone  ErrorCode = "track_danger_zone"
	ErrSpeedOutOfRange  ErrorCode = "speed_out_of_range"
	ErrUnrecoverable    ErrorCode = "unrecoverable_fault"
	ErrSafetyViolation  ErrorCode = "safety_violation"
	ErrControllerHalted ErrorCode = "controller_not_alive"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrNotImplemented:    "Operation not implemented",
	ErrUnavailable:       "Service unavailable",
	ErrInvalidConfig:     "Invalid configuration",
	ErrMissingConfig:     "Missing configuration",
	ErrReadConfig:        "Failed to read configuration",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrInitFailed:        "Initialization failed",
	ErrShutdownFailed:    "Shutdown failed",
	ErrAlreadyRunning:    "Process already running",
	ErrNotConnected:      "Driver is not connected",
	ErrConnectFailed:     "Failed to connect to the arm",
	ErrDriverFault:       "Driver reported a fault",
	ErrOperationFailed:   "Operation failed",
	ErrTimeout:           "Operation timed out",
	ErrComponentDisabled: "Component is not enabled",
	ErrUnknownLocation:   "No such named location",
	ErrEnableFailed:      "Failed to enable component",
	ErrDisableFailed:     "Failed to disable component",
	ErrUnknownComponent:  "Unknown component",
	ErrPoseOutOfBounds:   "Pose outside safety boundaries",
	ErrJointOutOfRange:   "Joint angle outside limits",
	ErrTooFewJoints:      "Not enough joint angles for model",
	ErrCollisionZone:     "Pose inside a collision zone",
	ErrSelfCollision:     "Joint configuration would self-collide",
	ErrTrackOutOfRange:   "Track position outside limits",
	ErrTrackDangerZone:   "Track position inside a blocked danger zone",
	ErrSpeedOutOfRange:   "Speed outside limits",
	ErrUnrecoverable:     "Fault could not be recovered",
	ErrSafetyViolation:   "Safety validation failed",
	ErrControllerHalted:  "Controller is not alive, clear errors first",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
