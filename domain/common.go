package domain

import (
	"errors"
	"net/http"
)

const (
	RoleUser = "user"
	//ROLE_ADMIN  = "admin"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageSuccessPing          = "pong"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrUserNotFound   = errors.New("user not found")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrInvalidRequest = errors.New("invalid request")
)

type errorKind struct {
	code   string
	status int
}

// errorKinds is checked in order with errors.Is, so wrapped errors resolve to
// the first sentinel they carry.
var errorKinds = []struct {
	err  error
	kind errorKind
}{
	{ErrInvalidRequest, errorKind{"INVALID_REQUEST", http.StatusBadRequest}},
	{ErrInvalidPackage, errorKind{"INVALID_PACKAGE", http.StatusBadRequest}},
	{ErrBelowMinimum, errorKind{"BELOW_MINIMUM", http.StatusBadRequest}},
	{ErrNotAMultiple, errorKind{"NOT_A_MULTIPLE", http.StatusBadRequest}},
	{ErrAmountMismatch, errorKind{"AMOUNT_MISMATCH", http.StatusBadRequest}},
	{ErrParseUUID, errorKind{"INVALID_REQUEST", http.StatusBadRequest}},
	{ErrDuplicateOrder, errorKind{"DUPLICATE_ORDER", http.StatusConflict}},
	{ErrInsufficientPoints, errorKind{"INSUFFICIENT_POINTS", http.StatusConflict}},
	{ErrEventNotStarted, errorKind{"EVENT_NOT_STARTED", http.StatusUnprocessableEntity}},
	{ErrEventEnded, errorKind{"EVENT_ENDED", http.StatusUnprocessableEntity}},
	{ErrInvalidSignature, errorKind{"INVALID_SIGNATURE", http.StatusBadRequest}},
	{ErrTokenNotFound, errorKind{"UNAUTHORIZED", http.StatusUnauthorized}},
	{ErrTokenExpired, errorKind{"UNAUTHORIZED", http.StatusUnauthorized}},
	{ErrTokenInvalid, errorKind{"UNAUTHORIZED", http.StatusUnauthorized}},
	{ErrUserNotAllowed, errorKind{"FORBIDDEN", http.StatusForbidden}},
	{ErrCandidateNotFound, errorKind{"CANDIDATE_NOT_FOUND", http.StatusNotFound}},
	{ErrUnknownOrder, errorKind{"UNKNOWN_ORDER", http.StatusNotFound}},
	{ErrPurchaseNotFound, errorKind{"PURCHASE_NOT_FOUND", http.StatusNotFound}},
	{ErrUserNotFound, errorKind{"USER_NOT_FOUND", http.StatusNotFound}},
	{ErrGatewayError, errorKind{"GATEWAY_ERROR", http.StatusBadGateway}},
}

var internalKind = errorKind{"INTERNAL_ERROR", http.StatusInternalServerError}

func lookupKind(err error) errorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return internalKind
}

// ErrorCode returns the stable code reported to API callers for err.
func ErrorCode(err error) string {
	return lookupKind(err).code
}

func HTTPStatus(err error) int {
	return lookupKind(err).status
}

// correctableErrors carry caller-facing detail when wrapped, such as the
// minimum amount that was not met.
var correctableErrors = []error{
	ErrInvalidRequest,
	ErrInvalidPackage,
	ErrBelowMinimum,
	ErrNotAMultiple,
}

// PublicError is the message safe to show a caller. Errors outside the known
// taxonomy collapse to a generic message.
func PublicError(err error) string {
	for _, e := range correctableErrors {
		if errors.Is(err, e) {
			return err.Error()
		}
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return MessageFailedProcessRequest
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayError) || errors.Is(err, ErrDuplicateOrder)
}
