package js

import (
	"errors"
	"fmt"
	"math"

	"github.com/dop251/goja"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"louis14tables/pkg/html"
	"louis14tables/pkg/layout"
)

// ErrAssertion marks a failed assert_equals or assert_true.
var ErrAssertion = errors.New("assertion failed")

// Engine runs a document's scripts against its laid out tables. Scripts
// see a `tables` array, a read-only `document` and two assertion helpers.
type Engine struct {
	vm     *goja.Runtime
	logger *zap.Logger

	failures   []error
	assertions int
}

// New creates a new JS engine with a fresh goja runtime.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	vm := goja.New()
	e := &Engine{vm: vm, logger: logger}

	c := &consoleAPI{logger: logger}
	c.register(vm)
	vm.Set("assert_equals", e.assertEquals)
	vm.Set("assert_true", e.assertTrue)
	return e
}

// Execute runs all scripts from the document in order. A script that throws
// stops execution and its error is returned. Otherwise every failed
// assertion is returned, joined.
func (e *Engine) Execute(doc *html.Document, results []*layout.TableResult) error {
	e.failures = nil
	e.assertions = 0

	ctx := newDOMContext(e.vm, doc, results)
	registerDocument(ctx)
	e.vm.Set("tables", ctx.tableArray(results))

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	e.logger.Debug("scripts executed",
		zap.Int("scripts", len(doc.Scripts)),
		zap.Int("assertions", e.assertions),
		zap.Int("failures", len(e.failures)))
	return errors.Join(e.failures...)
}

// Assertions returns the number of assertions the last Execute ran.
func (e *Engine) Assertions() int { return e.assertions }

func (e *Engine) assertEquals(call goja.FunctionCall) goja.Value {
	e.assertions++
	actual := normalize(call.Argument(0).Export())
	expected := normalize(call.Argument(1).Export())
	if !cmp.Equal(actual, expected) {
		e.fail(call.Argument(2), fmt.Sprintf("got %s, want %s", describe(actual), describe(expected)))
	}
	return goja.Undefined()
}

func (e *Engine) assertTrue(call goja.FunctionCall) goja.Value {
	e.assertions++
	if !call.Argument(0).ToBoolean() {
		e.fail(call.Argument(1), "expected true")
	}
	return goja.Undefined()
}

func (e *Engine) fail(message goja.Value, detail string) {
	msg := detail
	if !goja.IsUndefined(message) && !goja.IsNull(message) {
		msg = message.String() + ": " + detail
	}
	e.logger.Debug("assertion failed", zap.String("message", msg))
	e.failures = append(e.failures, fmt.Errorf("%w: %s", ErrAssertion, msg))
}

// normalize makes exported JS numbers comparable: goja exports integers as
// int64 and everything else as float64.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		if math.IsNaN(v) {
			return "NaN"
		}
		return v
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
