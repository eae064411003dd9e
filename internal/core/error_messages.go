// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// Error codes are grouped by category:
//
//	DB001 - Cannot reach database (connection refused/reset, unreachable)
//	DB002 - Operation timed out
//	DB003 - Statement rejected by the database (bad SQL, unknown column)
//	DB004 - Column already exists
//	VAL001 - Column name required
//	VAL002 - Edited grid out of sync with the loaded page
//	VAL003 - Editing session expired
//	ERR000 - Fallback for anything unrecognized
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package core

import (
	"errors"
	"strings"

	"github.com/Rajas1877/structgrid/internal/reconcile"
	"github.com/Rajas1877/structgrid/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A column with this name already exists",
			Action:  "Choose a different column name",
			Code:    "DB004",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The database rejected the statement",
			Action:  "Reload the page and try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "syntax error",
		msg: UserMessage{
			Message: "The database rejected the statement",
			Action:  "Reload the page and try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "session expired",
		msg: UserMessage{
			Message: "Your editing session expired",
			Action:  "Reload the page and redo your edits",
			Code:    "VAL003",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Typed errors are mapped first; anything else goes through the pattern
// table on the error text.
func MapError(err error) UserMessage {
	if err == nil {
		return defaultMessage
	}

	if errors.Is(err, ErrBlankColumnName) {
		return UserMessage{
			Message: "Please enter a valid column name",
			Action:  "Type a column name before submitting",
			Code:    "VAL001",
		}
	}

	if errors.Is(err, reconcile.ErrSnapshotMismatch) {
		return UserMessage{
			Message: "The edited grid no longer matches the loaded page",
			Action:  "Reload the page and redo your edits",
			Code:    "VAL002",
		}
	}

	var dbErr *store.DBError
	if errors.As(err, &dbErr) && dbErr.Kind == store.FailureConnection {
		return UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		}
	}

	errText := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errText, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
