package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned for every 401 from the cafe API. By the time a
// caller sees it, the session it was made with has already been cleared.
var ErrUnauthorized = errors.New("Unauthorized. Please login.")

// ErrRequestFailed matches both *RequestFailedError and *NetworkError with
// errors.Is, for callers that treat every non-auth failure alike.
var ErrRequestFailed = errors.New("request failed")

const fallbackDetail = "Request failed"

// RequestFailedError is a non-2xx, non-401 answer from the cafe API.
type RequestFailedError struct {
	Status int
	Detail string
}

func (e *RequestFailedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallbackDetail
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// NetworkError is a call that never produced a usable response: the
// transport failed, or a success body could not be decoded.
type NetworkError struct {
	Op    string // "GET /menu/"
	Parse bool
	Err   error
}

func (e *NetworkError) Error() string {
	if e.Parse {
		return fmt.Sprintf("apiclient: %s: invalid response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("apiclient: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrRequestFailed }

// Message turns an error from Request into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var rf *RequestFailedError
	var ne *NetworkError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized.Error()
	case errors.As(err, &rf):
		return rf.Error()
	case errors.As(err, &ne):
		if ne.Parse {
			return "Invalid response from server"
		}
		return "Could not reach the server"
	}
	return err.Error()
}

// parseDetail pulls the message out of a FastAPI error body. Both
// {"detail": "text"} and validation arrays {"detail": [{"msg": "..."}]} are
// understood. Anything else yields "".
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(env.Detail, &text); err == nil {
		return text
	}

	var issues []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &issues); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		if is.Msg == "" {
			continue
		}
		if n := len(is.Loc); n > 0 {
			msgs = append(msgs, fmt.Sprintf("%v: %s", is.Loc[n-1], is.Msg))
			continue
		}
		msgs = append(msgs, is.Msg)
	}
	return strings.Join(msgs, "; ")
}
