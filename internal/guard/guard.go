package guard

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/af-corp/mathforge/internal/apperr"
	"github.com/af-corp/mathforge/internal/config"
	"github.com/open-policy-agent/opa/rego"
)

const query = "[data.mathforge.guard.allow, data.mathforge.guard.reason]"

//go:embed default.rego
var defaultPolicy string

// DefaultModules returns the built-in policy used when no bundle is configured.
func DefaultModules() map[string]string {
	return map[string]string{"default.rego": defaultPolicy}
}

var ErrRequestDenied = apperr.Policy("request_denied", "Request denied by policy")

// Input describes a request about to be computed.
type Input struct {
	Endpoint    string
	DatasetSize int
	Operands    []float64
}

// policyInput is the document sent to OPA.
type policyInput struct {
	Endpoint    string    `json:"endpoint"`
	DatasetSize int       `json:"dataset_size"`
	Operands    []float64 `json:"operands"`
	Limits      limits    `json:"limits"`
}

type limits struct {
	MaxDatasetSize int     `json:"max_dataset_size"`
	MaxAbsOperand  float64 `json:"max_abs_operand"`
}

// Evaluator checks requests against Rego policies.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() config.GuardConfig
}

// NewEvaluator creates a guard. Call Load() to compile policies.
func NewEvaluator(cfg func() config.GuardConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the bundle path, falling back to the
// built-in policy when no path is set or it holds no .rego files.
func (e *Evaluator) Load() error {
	cfg := e.cfg()
	modules := DefaultModules()
	if cfg.BundlePath != "" {
		found, err := LoadRegoFiles(cfg.BundlePath)
		if err != nil {
			return fmt.Errorf("load rego files: %w", err)
		}
		if len(found) > 0 {
			modules = found
		} else {
			slog.Warn("no rego files found, using built-in guard policy", "path", cfg.BundlePath)
		}
	}
	if err := e.LoadFromModules(modules); err != nil {
		return err
	}
	slog.Info("guard policies loaded", "modules", len(modules))
	return nil
}

// LoadFromModules compiles policies from provided module sources.
func (e *Evaluator) LoadFromModules(modules map[string]string) error {
	opts := []func(*rego.Rego){rego.Query(query)}
	for name, src := range modules {
		opts = append(opts, rego.Module(name, src))
	}

	prepared, err := rego.New(opts...).PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()
	return nil
}

// Evaluate runs the policy against the given input.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (bool, string, error) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		// No policies loaded, fail closed
		return false, "no policies loaded", nil
	}

	cfg := e.cfg()
	timeout := cfg.EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc := policyInput{
		Endpoint:    in.Endpoint,
		DatasetSize: in.DatasetSize,
		Operands:    finiteOnly(in.Operands),
		Limits: limits{
			MaxDatasetSize: cfg.MaxDatasetSize,
			MaxAbsOperand:  cfg.MaxAbsOperand,
		},
	}

	results, err := prepared.Eval(evalCtx, rego.EvalInput(doc))
	if err != nil {
		return false, fmt.Sprintf("policy evaluation error: %v", err), err
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, "no policy result", nil
	}

	// Result is [allow, reason]
	arr, ok := results[0].Expressions[0].Value.([]any)
	if !ok || len(arr) < 2 {
		return false, "unexpected policy result format", nil
	}

	allowed, _ := arr[0].(bool)
	reason, _ := arr[1].(string)

	return allowed, reason, nil
}

// Check returns nil when the request may proceed, a policy error when it
// is denied and an internal error when evaluation fails.
func (e *Evaluator) Check(ctx context.Context, in Input) error {
	if !e.Enabled() {
		return nil
	}
	allowed, reason, err := e.Evaluate(ctx, in)
	if err != nil {
		slog.Error("guard evaluation failed", "endpoint", in.Endpoint, "error", err)
		return apperr.Internal(err, "guard evaluation failed")
	}
	if !allowed {
		msg := ErrRequestDenied.Message
		if reason != "" {
			msg += ": " + reason
		}
		return apperr.Policy(ErrRequestDenied.Code, msg)
	}
	return nil
}

// JSON cannot carry Inf or NaN, and the formula layer rejects them anyway.
func finiteOnly(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
