package fetch

import "fmt"

// FatalError is a remote-call failure not expected to change on retry,
// such as a bad request or a permanent server error.
type FatalError struct {
	Status int
	Body   []byte
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("HTTP status code %d", e.Status)
}

// ExhaustedError is returned once every allowed attempt has failed with a
// transient condition. LastErr holds the transport error of the final
// attempt, if there was one.
type ExhaustedError struct {
	Attempts   int
	LastStatus int
	LastErr    error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("retries exhausted after %d attempts, last HTTP status code %d", e.Attempts, e.LastStatus)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }
