package style

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error type checking
var (
	// ErrPropertyReferenceNotFound indicates an @name token with no entry in the property references
	ErrPropertyReferenceNotFound = errors.New("property reference not found")

	// ErrVariantReferenceNotFound indicates a %placeholder token with no entry in the variant map
	ErrVariantReferenceNotFound = errors.New("variant reference not found")

	// ErrCircularReference indicates a property reference chain that loops
	ErrCircularReference = errors.New("circular reference detected")

	// ErrNoHoister indicates a keyframes or font-face body with no hoister to receive it
	ErrNoHoister = errors.New("no hoister configured")

	// ErrInvalidNode indicates a key whose value has the wrong shape, such as a
	// selector mapped to a scalar
	ErrInvalidNode = errors.New("invalid style node")
)

// PropertyReferenceNotFoundError represents an unresolvable @name token
type PropertyReferenceNotFoundError struct {
	// Token is the literal unresolved token, e.g. "@missing"
	Token string
	// Via lists the references followed before the missing one was found
	Via []string
}

func (e *PropertyReferenceNotFoundError) Error() string {
	if len(e.Via) > 0 {
		return fmt.Sprintf("property reference not found: %s (via %s)", e.Token, strings.Join(e.Via, " → "))
	}
	return fmt.Sprintf("property reference not found: %s", e.Token)
}

func (e *PropertyReferenceNotFoundError) Unwrap() error {
	return ErrPropertyReferenceNotFound
}

// NewPropertyReferenceNotFoundError creates a new property reference error
func NewPropertyReferenceNotFoundError(token string, via []string) error {
	return &PropertyReferenceNotFoundError{
		Token: token,
		Via:   via,
	}
}

// VariantReferenceNotFoundError represents a %placeholder with no identifier
type VariantReferenceNotFoundError struct {
	Token    string
	Selector string
}

func (e *VariantReferenceNotFoundError) Error() string {
	return fmt.Sprintf("variant reference not found: %s in selector %q", e.Token, e.Selector)
}

func (e *VariantReferenceNotFoundError) Unwrap() error {
	return ErrVariantReferenceNotFound
}

// NewVariantReferenceNotFoundError creates a new variant reference error
func NewVariantReferenceNotFoundError(token, selector string) error {
	return &VariantReferenceNotFoundError{
		Token:    token,
		Selector: selector,
	}
}

// CircularReferenceError represents a property reference chain that loops
type CircularReferenceError struct {
	ReferenceChain []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected: %s", strings.Join(e.ReferenceChain, " → "))
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// NewCircularReferenceError creates a new circular reference error
func NewCircularReferenceError(chain []string) error {
	return &CircularReferenceError{
		ReferenceChain: chain,
	}
}

// InvalidNodeError represents a key whose value cannot be normalized
type InvalidNodeError struct {
	Key    string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid style node at %q: %s", e.Key, e.Reason)
}

func (e *InvalidNodeError) Unwrap() error {
	return ErrInvalidNode
}

// NewInvalidNodeError creates a new invalid node error
func NewInvalidNodeError(key, reason string) error {
	return &InvalidNodeError{
		Key:    key,
		Reason: reason,
	}
}
