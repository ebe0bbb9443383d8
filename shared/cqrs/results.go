package cqrs

// Status is the primary outcome of a command.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommandResult reports how a command ended. Absence of the target record is
// StatusNotFound, not an error. On StatusFailed, Err holds the cause
// (an *apperror.Error) for logging and status mapping.
type CommandResult struct {
	Status Status
	ID     string
	Err    error
}

func (r CommandResult) OK() bool       { return r.Status == StatusOK }
func (r CommandResult) NotFound() bool { return r.Status == StatusNotFound }

func Succeeded(id string) CommandResult {
	return CommandResult{Status: StatusOK, ID: id}
}

func NotFound() CommandResult {
	return CommandResult{Status: StatusNotFound}
}

func Failed(err error) CommandResult {
	return CommandResult{Status: StatusFailed, Err: err}
}
