package js

import (
	"fmt"
	"io"

	"tablefreeze/pkg/html"

	"github.com/dop251/goja"
)

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm  *goja.Runtime
	ctx *domContext
}

// New creates a new JS engine with a fresh goja runtime.
func New() *Engine {
	return NewWithOutput(nil, nil)
}

// NewWithOutput creates an engine whose console output goes to the given
// writers. Nil writers fall back to stdout/stderr.
func NewWithOutput(out, errw io.Writer) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm}

	c := &consoleAPI{out: out, err: errw}
	c.register(vm)

	return e
}

// Bind registers the global `document` object for the given document.
// Scripts run through Execute or RunString see and mutate this DOM.
func (e *Engine) Bind(doc *html.Document) {
	e.ctx = registerDocument(e.vm, doc)
}

// Execute binds the document and runs all its scripts in order. Any JS
// error is returned with the script index; callers may log and continue
// rather than fail.
func (e *Engine) Execute(doc *html.Document) error {
	e.Bind(doc)

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}

	return nil
}

// RunString evaluates a single script against whatever is currently
// bound.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}
