package evaluator

import (
	"testing"

	"github.com/funvibe/questlang/internal/symbols"
)

func TestIsTruthy(t *testing.T) {
	g := symbols.NewGlobalScope()
	marker := symbols.NewAggregateType("marker", g, nil)
	health := symbols.NewAggregateType("health_component", g, nil)
	health.Bind(symbols.NewVariable("hp", health, symbols.IntType))
	filled := NewSpace(nil)
	filled.Bind("hp", NewScalar(symbols.IntType, int64(0)))
	edges := symbols.NewEnumType("edge_type", nil, "seq", "st_m")
	seq, _ := edges.Variant("seq")

	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", nil, false},
		{"none", NoneValue(), false},
		{"false", NewScalar(symbols.BoolType, false), false},
		{"true", NewScalar(symbols.BoolType, true), true},
		{"zero int", NewScalar(symbols.IntType, int64(0)), false},
		{"int", NewScalar(symbols.IntType, int64(3)), true},
		{"zero float", NewScalar(symbols.FloatType, 0.0), false},
		{"float", NewScalar(symbols.FloatType, 0.1), true},
		{"empty string", NewScalar(symbols.StringType, ""), false},
		{"string", NewScalar(symbols.StringType, "x"), true},
		{"unset graph", NewScalar(symbols.GraphType, nil), false},
		{"empty aggregate", NewAggregateValue(marker, NewSpace(nil)), false},
		{"aggregate with zero member", NewAggregateValue(health, filled), true},
		{"enum without variant", NewEnumValue(edges, nil), false},
		{"enum variant", NewEnumValue(edges, seq), true},
		{"empty list", NewListValue(symbols.EnsureListType(g, symbols.IntType)), true},
		{"unset function", NewFunctionValue(symbols.EnsureFunctionType(g, nil), nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTruthy(tt.v); got != tt.want {
				t.Errorf("isTruthy = %v, want %v", got, tt.want)
			}
		})
	}
}
