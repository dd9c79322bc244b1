// Package alerting raises low-stock alerts for product rows touched by
// sale activity and for scheduled inventory sweeps.
//
// Which rows count as "low" is decided by a CEL expression, so
// deployments can tune alerting (e.g. ignore discontinued brands or
// alert on sell-through rate) without a code change.
package alerting

import (
	"github.com/google/cel-go/cel"

	"inventra/internal/core/apperror"
	"inventra/internal/domain/catalogs/product"
)

// DefaultRuleExpr flags rows at or below their threshold.
const DefaultRuleExpr = "stock <= threshold"

// Rule is a compiled low-stock predicate evaluated per product row.
//
// Available variables: stock, threshold, sold (ints), name, brand
// (strings).
type Rule struct {
	expr    string
	program cel.Program
}

// CompileRule compiles a CEL expression into a Rule.
func CompileRule(expr string) (*Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable("stock", cel.IntType),
		cel.Variable("threshold", cel.IntType),
		cel.Variable("sold", cel.IntType),
		cel.Variable("name", cel.StringType),
		cel.Variable("brand", cel.StringType),
	)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewValidation("invalid alert rule").
			WithDetail("expr", expr).
			WithCause(issues.Err())
	}
	if ast.OutputType().String() != "bool" {
		return nil, apperror.NewValidation("alert rule must evaluate to a boolean").
			WithDetail("expr", expr)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	return &Rule{expr: expr, program: program}, nil
}

// MustCompileRule compiles or panics. For defaults and tests.
func MustCompileRule(expr string) *Rule {
	r, err := CompileRule(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRule returns the threshold-based rule.
func DefaultRule() *Rule {
	return MustCompileRule(DefaultRuleExpr)
}

// Expr returns the source expression.
func (r *Rule) Expr() string {
	return r.expr
}

// Matches evaluates the rule against one product row.
func (r *Rule) Matches(p *product.Product) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"stock":     p.StockQuantity,
		"threshold": p.LowStockThreshold,
		"sold":      p.QuantitySold,
		"name":      p.Name,
		"brand":     p.Brand,
	})
	if err != nil {
		return false, err
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewInternal(nil).
			WithDetail("reason", "alert rule returned a non-boolean")
	}
	return matched, nil
}

// FilterLow returns the rows the rule flags.
func (r *Rule) FilterLow(rows []*product.Product) ([]*product.Product, error) {
	var low []*product.Product
	for _, row := range rows {
		matched, err := r.Matches(row)
		if err != nil {
			return nil, err
		}
		if matched {
			low = append(low, row)
		}
	}
	return low, nil
}
