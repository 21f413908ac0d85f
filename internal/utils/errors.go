package utils

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Request errors
	ErrInvalidInput = "INVALID_INPUT"

	// Voting business-rule errors; these always surface as HTTP 400 with
	// their literal message.
	ErrInsufficientPoints = "INSUFFICIENT_POINTS"
	ErrSubjectNotFound    = "SUBJECT_NOT_FOUND"
	ErrDuplicateVote      = "DUPLICATE_VOTE"

	// Infrastructure errors
	ErrStore        = "STORE_ERROR"
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

// Literal error messages served to clients.
const (
	MsgInsufficientPoints = "Not enough points to vote"
	MsgSubjectNotFound    = "Subject not found"
	MsgDuplicateVote      = "You have already voted this way on this subject"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewInsufficientPointsError() *AppError {
	return &AppError{Code: ErrInsufficientPoints, Message: MsgInsufficientPoints}
}

func NewSubjectNotFoundError() *AppError {
	return &AppError{Code: ErrSubjectNotFound, Message: MsgSubjectNotFound}
}

func NewDuplicateVoteError() *AppError {
	return &AppError{Code: ErrDuplicateVote, Message: MsgDuplicateVote}
}

func NewStoreError(message string, originalErr error) *AppError {
	return &AppError{Code: ErrStore, Message: message, Origin: originalErr}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
// Business-rule failures are client errors; store and actor failures are
// server errors.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrInvalidInput, ErrInsufficientPoints, ErrSubjectNotFound, ErrDuplicateVote:
		return 400 // http.StatusBadRequest
	case ErrStore, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500
	}
}
