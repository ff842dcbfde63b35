package client

import (
	"fmt"

	"github.com/pkg/errors"
)

var commonErrorMessages = map[int]string{
	100: "unknown error",
	101: "no parameter of API, method or version",
	102: "the requested API does not exist",
	103: "the requested method does not exist",
	104: "the requested version does not support the functionality",
	105: "the logged in session does not have permission",
	106: "session timeout",
	107: "session interrupted by duplicate login",
	119: "session id not found",
}

var authErrorMessages = map[int]string{
	400: "no such account or incorrect password",
	401: "account disabled",
	402: "permission denied",
	403: "2-step verification code required",
	404: "failed to authenticate 2-step verification code",
	406: "enforce to authenticate with 2-factor authentication code",
	407: "blocked IP source",
	408: "expired password cannot change",
	409: "expired password",
	410: "password must be changed",
}

func errorMessage(code int) string {
	if msg, ok := commonErrorMessages[code]; ok {
		return msg
	}
	return "unrecognized error"
}

// ApiError is returned when the DiskStation answers with an HTTP error or
// with success=false.
type ApiError struct {
	Api        string
	Method     string
	Code       int
	StatusCode int
}

func (e *ApiError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v %v: unexpected HTTP status %d", e.Api, e.Method, e.StatusCode)
	}
	return fmt.Sprintf("%v %v failed with code %d: %v", e.Api, e.Method, e.Code, errorMessage(e.Code))
}

// AuthenticationError is returned when the DiskStation rejects the login.
type AuthenticationError struct {
	Code   int
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication rejected with code %d: %v", e.Code, e.Reason)
}

func newAuthenticationError(code int) *AuthenticationError {
	reason, ok := authErrorMessages[code]
	if !ok {
		reason = errorMessage(code)
	}
	return &AuthenticationError{Code: code, Reason: reason}
}

// FetchError wraps any failure of a poll cycle request: transport, HTTP
// status, payload decoding, DSM error codes or missing required fields.
type FetchError struct {
	Api    string
	Method string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %v %v: %v", e.Api, e.Method, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(api, method string, err error) *FetchError {
	return &FetchError{Api: api, Method: method, Err: err}
}

func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
