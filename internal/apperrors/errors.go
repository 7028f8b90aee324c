package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNotAuthenticated indicates that an operation requiring a session was invoked without one.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrStorageRead indicates that durable storage could not be read.
var ErrStorageRead = errors.New("storage read failed")

// ErrStorageWrite indicates that durable storage could not be written.
var ErrStorageWrite = errors.New("storage write failed")

// ErrStorageCorrupt indicates that a stored snapshot could not be decoded.
var ErrStorageCorrupt = errors.New("storage corrupt")

// ErrAuthProvider indicates that the identity provider rejected a call or
// returned an unexpected status.
var ErrAuthProvider = errors.New("auth provider error")

// ErrProviderNotReady indicates that the identity provider has not finished
// initializing.
var ErrProviderNotReady = errors.New("auth provider not ready")

// ErrEmailUnverified indicates that a sign-up is pending because the user must
// follow the verification link already sent to their email address.
var ErrEmailUnverified = errors.New("please check your email and click the verification link to complete signup")

// ErrVerificationRequired indicates that a sign-up is pending and a
// verification code has been sent to the user's email address.
var ErrVerificationRequired = errors.New("a verification code has been sent to your email, please check your inbox")

// ErrDailyLimitReached indicates the user has exhausted today's mantra
// generations.
var ErrDailyLimitReached = errors.New("daily mantra generation limit reached")
