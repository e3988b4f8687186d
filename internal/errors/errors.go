package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a mutation targets a row that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when another user already holds the email.
	ErrEmailTaken = errors.New("já existe um usuário com este e-mail")
	// ErrPasswordRequired is returned when a new user is created without a password.
	ErrPasswordRequired = errors.New("informe uma senha para o novo usuário")
	// ErrInvalidCredentials is returned for any failed sign-in, whichever part was wrong.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrProfileNotFound is returned when a credential has no matching user profile.
	ErrProfileNotFound = errors.New("perfil de usuário não encontrado")
	// ErrInvalidUpload is returned when an uploaded file is too large or not an image.
	ErrInvalidUpload = errors.New("arquivo de imagem inválido")
	// ErrForbidden is returned when a user acts on something they do not own.
	ErrForbidden = errors.New("operação não permitida")
	// ErrEventFull is returned when a participation would exceed the event capacity.
	ErrEventFull = errors.New("evento lotado")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors, wrapped or not, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrPasswordRequired):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordRequired.Error(), "PASSWORD_REQUIRED")
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrProfileNotFound):
		// Both outcomes look the same to the caller.
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrInvalidUpload):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidUpload.Error(), "INVALID_UPLOAD")
	case errors.Is(err, ErrEventFull):
		return NewHTTPError(http.StatusConflict, ErrEventFull.Error(), "EVENT_FULL")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
