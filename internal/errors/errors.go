package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailyos/internal/logger"
)

var (
	// ErrNotAuthenticated is returned when an operation has no user to act for.
	ErrNotAuthenticated = stderrors.New("not authenticated")
	// ErrNotFound is returned when a referenced row does not exist or is not owned by the caller.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalid marks input rejected before any write happened.
	ErrInvalid = stderrors.New("invalid input")
	// ErrNailLimit is returned when a day already holds the maximum number of nails.
	ErrNailLimit = fmt.Errorf("%w: daily nail limit reached", ErrInvalid)
)

// Invalidf returns an ErrInvalid-wrapping error with a formatted reason.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound-wrapping error naming the missing thing.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
