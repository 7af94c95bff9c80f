package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const genericFailure = "request failed"

// Error is a failed API call. Status is 0 for transport failures.
type Error struct {
	Status    int
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

// failureMessage picks the most specific message for a failed response:
// detail (string or first validation msg), then the envelope message, then the
// status line.
func failureMessage(status int, raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := detailMessage(body.Detail); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
	}
	if status > 0 {
		return fmt.Sprintf("%s with status %d", genericFailure, status)
	}
	return genericFailure
}

func detailMessage(raw json.RawMessage) string {
	if !hasValue(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, it := range list {
			if m := strings.TrimSpace(it.Msg); m != "" {
				return m
			}
		}
	}
	return ""
}
