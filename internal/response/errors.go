package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"
	ErrPrimaryAdminOnly   ErrCode = "PRIMARY_ADMIN_ONLY"
	ErrPrimaryAdminLocked ErrCode = "PRIMARY_ADMIN_PROTECTED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrConflict           ErrCode = "CONFLICT"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrStudentIDTaken     ErrCode = "STUDENT_ID_ALREADY_REGISTERED"
	ErrStudentIDExhausted ErrCode = "STUDENT_ID_EXHAUSTED"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotStarted   ErrCode = "EXAM_NOT_STARTED"
	ErrExamEnded        ErrCode = "EXAM_ENDED"
	ErrExamInactive     ErrCode = "EXAM_INACTIVE"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email, student ID, or password."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has been invalidated. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrStudentAccessOnly:
		return "This action is available to students only."
	case ErrAdminAccessOnly:
		return "This action is available to administrators only."
	case ErrPrimaryAdminOnly:
		return "Only the primary administrator may manage admin accounts."
	case ErrPrimaryAdminLocked:
		return "The primary administrator account cannot be removed."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "One or more fields failed validation."
	case ErrInvalidID:
		return "The provided ID is not valid."
	case ErrInvalidPayload:
		return "The request payload could not be parsed."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The request conflicts with the current state of the resource."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrStudentIDTaken:
		return "An account with this student ID already exists."
	case ErrStudentIDExhausted:
		return "Could not allocate a unique student ID. Please try again."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotStarted:
		return "This exam has not started yet."
	case ErrExamEnded:
		return "This exam has already ended."
	case ErrExamInactive:
		return "This exam is not currently active."
	case ErrAlreadySubmitted:
		return "You have already submitted this exam."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please slow down."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An unexpected error occurred. Please try again later."

	default:
		return "Unknown error."
	}
}
