package alias

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAlias matches *DuplicateAliasError.
	ErrDuplicateAlias = errors.New("duplicate alias")
	// ErrUnknownPath matches *UnknownPathError.
	ErrUnknownPath = errors.New("unknown trait path")
	// ErrAliasNotFound matches *AliasNotFoundError.
	ErrAliasNotFound = errors.New("alias not found")
	// ErrInvalidKey is returned for empty or malformed external keys.
	ErrInvalidKey = errors.New("invalid external key")
)

// DuplicateAliasError reports an external key that is already registered.
type DuplicateAliasError struct {
	Key string
	// Existing is the path the key already maps to.
	Existing string
}

// Error implements the error interface.
func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("key %q is already registered for %s", e.Key, e.Existing)
}

// Is reports whether target is ErrDuplicateAlias.
func (e *DuplicateAliasError) Is(target error) bool {
	return target == ErrDuplicateAlias
}

// UnknownPathError reports an alias target that does not resolve to a
// configurable trait.
type UnknownPathError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *UnknownPathError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unknown trait path %q", e.Path)
	}
	return fmt.Sprintf("unknown trait path %q: %s", e.Path, e.Reason)
}

// Is reports whether target is ErrUnknownPath.
func (e *UnknownPathError) Is(target error) bool {
	return target == ErrUnknownPath
}

// AliasNotFoundError reports an external key with no registered mapping.
type AliasNotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e *AliasNotFoundError) Error() string {
	return fmt.Sprintf("unrecognized option %q", e.Key)
}

// Is reports whether target is ErrAliasNotFound.
func (e *AliasNotFoundError) Is(target error) bool {
	return target == ErrAliasNotFound
}
