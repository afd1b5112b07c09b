package errors

// ErrorCode identifies one failure class, from rejected motion commands to
// driver faults. Codes are stable strings so they survive logging and the
// status API unchanged.
type ErrorCode string

// Error is a coded error. WithData carries context such as the vendor fault
// code or the violated limit.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors; every package holds one.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
