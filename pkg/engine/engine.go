// Package engine provides a Lisp query console over a half-edge mesh.
// It wraps zygomys in a sandboxed environment with builtins that walk the
// mesh topology, so adjacency can be explored interactively.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/hemesh/pkg/halfedge"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates queries against one mesh. It is safe for concurrent use
// as long as nothing mutates the mesh meanwhile; each call to Evaluate
// creates a fresh sandboxed environment.
type Engine struct {
	mesh    *halfedge.Mesh
	timeout time.Duration
	log     *zap.Logger

	mu         sync.Mutex
	generation uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger for evaluation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an Engine that queries m.
func NewEngine(m *halfedge.Mesh, opts ...Option) *Engine {
	e := &Engine{mesh: m, timeout: EvalTimeout, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs Lisp source against the mesh and returns the printed value
// of the last expression.
//
// Return semantics:
//   - On success: returns value + nil errors + nil error
//   - On parse/eval failure: returns "" + eval errors + nil error
//   - On fatal failure (timeout, panic): returns "" + nil + error
func (e *Engine) Evaluate(source string) (string, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		value, evalErrs, err := e.evaluate(source)
		ch <- evalResult{value: value, errors: evalErrs, err: err}
	}()

	value, evalErrs, err := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	if err != nil {
		e.log.Warn("evaluation failed", zap.Uint64("generation", gen), zap.Error(err))
	} else if len(evalErrs) > 0 {
		e.log.Debug("evaluation errors", zap.Uint64("generation", gen), zap.Int("count", len(evalErrs)))
	}
	return value, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (string, []EvalError, error) {
	// Empty source is a valid program with no value.
	if strings.TrimSpace(source) == "" {
		return "", nil, nil
	}
	if e.mesh == nil {
		return "", nil, fmt.Errorf("engine has no mesh")
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e.mesh)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return "", parseZygomysError(err), nil
	}

	result, err := env.Run()
	if err != nil {
		return "", parseZygomysError(err), nil
	}
	if result == nil {
		return "", nil, nil
	}
	return result.SexpString(nil), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
