package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryRender   Category = "render"
	CategoryConfig   Category = "config"
	CategoryScenario Category = "scenario"
	CategoryCLI      Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// VtreeError is a structured error with an optional file location,
// suggestion and documentation link.
type VtreeError struct {
	// Code is a unique error identifier (e.g., "E200").
	Code string

	// Category is the error type (runtime, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file location where the error occurred.
	Location *Location

	// Context contains surrounding lines of the file.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VtreeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *VtreeError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error.
func (e *VtreeError) WithLocation(file string, line, column int) *VtreeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, contextLines)
	return e
}

// contextLines is the number of file lines shown around a location.
const contextLines = 5

var yamlLine = regexp.MustCompile(`line (\d+)`)

// WithLocationFromYAML extracts a line number from a YAML decoder error
// ("yaml: line 3: ...") and attaches it as the location in file.
func (e *VtreeError) WithLocationFromYAML(file string, err error) *VtreeError {
	if err == nil {
		return e
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, _ := strconv.Atoi(m[1])
	if line > 0 {
		e.WithLocation(file, line, 0)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VtreeError) WithSuggestion(s string) *VtreeError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *VtreeError) WithExample(ex string) *VtreeError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VtreeError) WithDetail(d string) *VtreeError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *VtreeError) Wrap(err error) *VtreeError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a VtreeError from a registered error code.
func New(code string) *VtreeError {
	template, ok := registry[code]
	if !ok {
		return &VtreeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VtreeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new VtreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *VtreeError {
	return &VtreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VtreeError.
func FromError(err error, code string) *VtreeError {
	if err == nil {
		return nil
	}
	var ve *VtreeError
	if stderrors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}

// Classify maps reconciliation errors to their registered codes. Errors
// with no registered code are wrapped under fallback.
func Classify(err error, fallback string) *VtreeError {
	if err == nil {
		return nil
	}
	var ve *VtreeError
	if stderrors.As(err, &ve) {
		return ve
	}

	code := fallback
	switch {
	case stderrors.Is(err, vdom.ErrInvalidNode):
		code = "E200"
	case stderrors.Is(err, vdom.ErrUnmountedUpdate):
		code = "E201"
	case stderrors.Is(err, vdom.ErrHookInvocation):
		code = "E202"
	case stderrors.Is(err, vdom.ErrNoTarget):
		code = "E203"
	case stderrors.Is(err, render.ErrForeignAnchor):
		code = "E204"
	}
	e := New(code).Wrap(err)

	var hook *vdom.HookInvocationError
	if stderrors.As(err, &hook) {
		e.WithSuggestion(fmt.Sprintf("Check the %s hook of component %s.", hook.Hook, hook.Component))
	}
	return e
}
