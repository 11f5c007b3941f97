package schema

import "errors"

// Domain errors for action schemas.
var (
	// ErrUnknownAction indicates the action name has no schema entry.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingArgument indicates a template placeholder has no matching argument.
	ErrMissingArgument = errors.New("missing action argument")

	// ErrInvalidTemplate indicates a fluent template is malformed.
	ErrInvalidTemplate = errors.New("invalid fluent template")

	// ErrDuplicateSchema indicates two schemas share a name.
	ErrDuplicateSchema = errors.New("duplicate action schema")

	// ErrInvalidSchema indicates a schema definition is malformed.
	ErrInvalidSchema = errors.New("invalid action schema")
)
