package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrUserAccessOnly  ErrCode = "USER_ACCESS_ONLY"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrConflict       ErrCode = "CONFLICT"
	ErrDuplicateEmail ErrCode = "DUPLICATE_EMAIL"

	// ─── Quiz-specific ─────────────────────────────────────────────────
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrAlreadyAnswered ErrCode = "ALREADY_ANSWERED"
	ErrNotYetAnswered  ErrCode = "NOT_YET_ANSWERED"
	ErrSessionComplete ErrCode = "SESSION_COMPLETE"
	ErrNoQuestions     ErrCode = "NO_QUESTIONS"
	ErrPoolTooSmall    ErrCode = "POOL_TOO_SMALL"
	ErrInvalidCategory ErrCode = "INVALID_CATEGORY"
	ErrInvalidSet      ErrCode = "INVALID_SET"
	ErrPremiumLocked   ErrCode = "PREMIUM_LOCKED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

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
		return "Incorrect email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrUserAccessOnly:
		return "This resource is restricted to registered users."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDuplicateEmail:
		return "An account with this email already exists."

	// ─── Quiz-specific ─────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "No active quiz session was found."
	case ErrAlreadyAnswered:
		return "The current question has already been answered."
	case ErrNotYetAnswered:
		return "Answer the current question before advancing."
	case ErrSessionComplete:
		return "This quiz session is already finished."
	case ErrNoQuestions:
		return "No questions are available for this quiz."
	case ErrPoolTooSmall:
		return "Not enough questions are available for the requested quiz size."
	case ErrInvalidCategory:
		return "Unknown quiz category."
	case ErrInvalidSet:
		return "The requested practice set does not exist."
	case ErrPremiumLocked:
		return "Premium questions are locked. Share the app to unlock them."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
