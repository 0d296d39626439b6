// Package transform applies a user-supplied JavaScript snippet to each
// scraped listing: field mapping, normalization, or filtering without
// recompiling. The snippet sees a `listing` object and its final expression
// becomes the replacement; null/undefined drops the listing.
package transform

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// Transformer runs one compiled script over listings. Safe for concurrent
// use; the VM is single-threaded so applications are serialized.
type Transformer struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	program *goja.Program
}

// New compiles the script once up front
func New(src string) (*Transformer, error) {
	program, err := goja.Compile("transform.js", src, true)
	if err != nil {
		return nil, fmt.Errorf("compiling transform script: %w", err)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	_ = vm.Set("console", map[string]any{
		"log": func(call goja.FunctionCall) goja.Value {
			log.Info().Interface("args", exportArgs(call)).Msg("transform script")
			return goja.Undefined()
		},
		"error": func(call goja.FunctionCall) goja.Value {
			log.Warn().Interface("args", exportArgs(call)).Msg("transform script")
			return goja.Undefined()
		},
	})

	return &Transformer{vm: vm, program: program}, nil
}

// Apply runs the script with v (any JSON-marshalable value, typically a
// listing) bound as `listing`. Returns the transformed value, whether it
// was kept, and any script error. Script errors never abort a run; the
// caller keeps the original value.
func Apply[T any](t *Transformer, v T) (T, bool, error) {
	var zero T

	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return zero, false, fmt.Errorf("encoding value for transform: %w", err)
	}
	var input map[string]any
	if err := json.Unmarshal(raw, &input); err != nil {
		return zero, false, fmt.Errorf("decoding value for transform: %w", err)
	}

	if err := t.vm.Set("listing", input); err != nil {
		return zero, false, err
	}

	result, err := t.vm.RunProgram(t.program)
	if err != nil {
		return zero, false, fmt.Errorf("transform script failed: %w", err)
	}
	if result == nil || goja.IsNull(result) || goja.IsUndefined(result) {
		return zero, false, nil
	}

	out, err := json.Marshal(result.Export())
	if err != nil {
		return zero, false, fmt.Errorf("encoding transform result: %w", err)
	}
	var transformed T
	if err := json.Unmarshal(out, &transformed); err != nil {
		return zero, false, fmt.Errorf("transform result does not match the listing shape: %w", err)
	}
	return transformed, true, nil
}

func exportArgs(call goja.FunctionCall) []any {
	args := make([]any, 0, len(call.Arguments))
	for _, a := range call.Arguments {
		args = append(args, a.Export())
	}
	return args
}
