// Package result normalizes asynchronous call outcomes for UI controllers.
//
// Every tracked operation publishes Loading first and then exactly one
// terminal value, Success or Error. Controllers render a spinner on Loading,
// content on Success and the message with a retry affordance on Error.
package result

import (
	"github.com/dmitrijs2005/activityhub/internal/client/client"
)

type Status int

const (
	// StatusIdle is the state of a slot that was never run.
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the three-state outcome of a call. Data is meaningful only when
// Status is StatusSuccess; Message only when Status is StatusError.
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
}

func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Failure builds an Error result. An empty message becomes "Unknown error".
func Failure[T any](message string) Result[T] {
	if message == "" {
		message = client.MsgUnknown
	}
	return Result[T]{Status: StatusError, Message: message}
}

// From wraps the return values of a repository call.
func From[T any](data T, err error) Result[T] {
	if err != nil {
		return Failure[T](client.Message(err))
	}
	return Success(data)
}

// Terminal reports whether r is Success or Error.
func (r Result[T]) Terminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusError
}
