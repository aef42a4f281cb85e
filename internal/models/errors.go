package models

import (
	"fmt"
	"strings"
)

// Error codes carried by AppError.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// Resource names used by not-found errors.
const (
	ResourcePost    = "Post"
	ResourceComment = "Comment"
	ResourceTag     = "Tag"
)

// FieldFailure is a single validation failure on one field.
type FieldFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a custom application error
type AppError struct {
	Code     string
	Resource string
	Message  string
	Failures []FieldFailure
	Err      error
}

// Sentinels for errors.Is matching. Resource-less sentinels match any resource.
var (
	ErrNotFound        = &AppError{Code: CodeNotFound}
	ErrPostNotFound    = &AppError{Code: CodeNotFound, Resource: ResourcePost}
	ErrCommentNotFound = &AppError{Code: CodeNotFound, Resource: ResourceComment}
	ErrTagNotFound     = &AppError{Code: CodeNotFound, Resource: ResourceTag}
	ErrValidation      = &AppError{Code: CodeValidation}
)

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Failures) > 0 {
		parts := make([]string, 0, len(e.Failures))
		for _, f := range e.Failures {
			parts = append(parts, f.Field+": "+f.Message)
		}
		msg = "validation failed: " + strings.Join(parts, "; ")
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code, and on resource when the target names one.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Resource == "" || t.Resource == e.Resource
}

// NewNotFoundError builds a not-found error for resource with a human-readable message.
func NewNotFoundError(resource, message string) *AppError {
	return &AppError{
		Code:     CodeNotFound,
		Resource: resource,
		Message:  message,
	}
}

// NewPostNotFoundError reports a missing post.
func NewPostNotFoundError(message string) *AppError {
	return NewNotFoundError(ResourcePost, message)
}

// NewCommentNotFoundError reports a missing comment.
func NewCommentNotFoundError(message string) *AppError {
	return NewNotFoundError(ResourceComment, message)
}

// NewTagNotFoundError reports a missing tag.
func NewTagNotFoundError(message string) *AppError {
	return NewNotFoundError(ResourceTag, message)
}

// NewValidationFailedError carries every failure found, not just the first.
func NewValidationFailedError(failures []FieldFailure) *AppError {
	return &AppError{
		Code:     CodeValidation,
		Failures: failures,
	}
}

// NewValidationError is a single-field shorthand for NewValidationFailedError.
func NewValidationError(field, message string) *AppError {
	return NewValidationFailedError([]FieldFailure{{Field: field, Message: message}})
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}
