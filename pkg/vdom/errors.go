package vdom

import (
	"errors"
	"fmt"
)

// Sentinel errors for reconciliation failures. Typed errors below match them
// with errors.Is.
var (
	// ErrInvalidNode is returned when a value cannot be normalized into a Node.
	ErrInvalidNode = errors.New("vdom: invalid node")

	// ErrUnmountedUpdate is returned when an instance is updated before it
	// has ever received an anchor.
	ErrUnmountedUpdate = errors.New("vdom: update on unmounted instance")

	// ErrHookInvocation is returned when a lifecycle hook fails.
	ErrHookInvocation = errors.New("vdom: hook invocation failed")

	// ErrNoTarget is returned when a Reconciler has no Target.
	ErrNoTarget = errors.New("vdom: no target")
)

// InvalidNodeError describes a value the builder could not turn into a Node.
type InvalidNodeError struct {
	Value  any
	Reason string
}

// Error returns the error message.
func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("vdom: invalid node %T: %s", e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidNode.
func (e *InvalidNodeError) Is(target error) bool {
	return target == ErrInvalidNode
}

// UnmountedUpdateError is returned by Update and SetState on an instance
// that was never mounted.
type UnmountedUpdateError struct {
	Component string
	Op        string
}

// Error returns the error message.
func (e *UnmountedUpdateError) Error() string {
	return fmt.Sprintf("vdom: %s: %s called before mount", e.Component, e.Op)
}

// Is reports whether target is ErrUnmountedUpdate.
func (e *UnmountedUpdateError) Is(target error) bool {
	return target == ErrUnmountedUpdate
}

// HookInvocationError wraps an error returned (or a panic raised) by a
// lifecycle hook.
type HookInvocationError struct {
	Component string
	Hook      string
	Err       error
}

// Error returns the error message with component and hook context.
func (e *HookInvocationError) Error() string {
	return fmt.Sprintf("vdom: %s.%s: %v", e.Component, e.Hook, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *HookInvocationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrHookInvocation.
func (e *HookInvocationError) Is(target error) bool {
	return target == ErrHookInvocation
}

// PanicError carries a value recovered from a panicking hook.
type PanicError struct {
	Value any
}

// Error returns the panic value as a message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
