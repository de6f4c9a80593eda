package cel

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"sinag/internal/constants"
)

// DataVariable is the name under which response data is exposed to expressions.
const DataVariable = "data"

// DefaultCacheSize bounds how many compiled programs an Evaluator keeps.
const DefaultCacheSize = constants.DefaultExpressionCacheSize

type cachedProgram struct {
	expression string
	program    cel.Program
}

// Evaluator compiles and runs EXPRESSION rules. Compiled programs are kept in
// a least-recently-used cache so caller-supplied expressions cannot grow it
// without limit.
type Evaluator struct {
	env      *cel.Env
	mu       sync.Mutex
	capacity int
	order    *list.List
	programs map[string]*list.Element
}

type EvaluatorOption func(*Evaluator)

// WithCacheSize sets the program cache capacity. Values below one keep the default.
func WithCacheSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.capacity = size
		}
	}
}

func NewEvaluator(opts ...EvaluatorOption) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(DataVariable, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	e := &Evaluator{
		env:      env,
		capacity: DefaultCacheSize,
		order:    list.New(),
		programs: make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Evaluator) compile(expression string) (*cel.Ast, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("expression must return bool, got %v", ast.OutputType())
	}

	return ast, nil
}

func (e *Evaluator) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

// Evaluate runs a boolean expression against response data. Programs are
// compiled on first use and reused afterwards.
func (e *Evaluator) Evaluate(ctx context.Context, expression string, data map[string]interface{}) (bool, error) {
	program, err := e.program(expression)
	if err != nil {
		return false, err
	}

	if data == nil {
		data = map[string]interface{}{}
	}

	result, _, err := program.ContextEval(ctx, map[string]interface{}{
		DataVariable: data,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}

func (e *Evaluator) program(expression string) (cel.Program, error) {
	e.mu.Lock()
	if elem, ok := e.programs[expression]; ok {
		e.order.MoveToFront(elem)
		e.mu.Unlock()
		return elem.Value.(*cachedProgram).program, nil
	}
	e.mu.Unlock()

	program, err := e.CompileExpression(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if elem, ok := e.programs[expression]; ok {
		e.order.MoveToFront(elem)
		return elem.Value.(*cachedProgram).program, nil
	}
	e.programs[expression] = e.order.PushFront(&cachedProgram{expression: expression, program: program})
	for e.order.Len() > e.capacity {
		oldest := e.order.Back()
		e.order.Remove(oldest)
		delete(e.programs, oldest.Value.(*cachedProgram).expression)
	}

	return program, nil
}

func (e *Evaluator) CompileExpression(expression string) (cel.Program, error) {
	ast, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return program, nil
}

// CachedPrograms reports how many compiled programs are held.
func (e *Evaluator) CachedPrograms() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Len()
}
