package middleware_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/belief-eval/domain/fluent"
	"github.com/felixgeelhaar/belief-eval/domain/middleware"
)

func record(order *[]string, name string) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *middleware.Request) (fluent.State, error) {
			*order = append(*order, name+":before")
			claim, err := next(ctx, req)
			*order = append(*order, name+":after")
			return claim, err
		}
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	var order []string
	final := func(_ context.Context, _ *middleware.Request) (fluent.State, error) {
		order = append(order, "handler")
		return fluent.ParseState("(full b)"), nil
	}

	handler := middleware.Chain(record(&order, "A"), record(&order, "B"))(final)
	claim, err := handler(context.Background(), &middleware.Request{EpisodeID: "ep-1"})
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if claim.Len() != 1 {
		t.Errorf("claim.Len() = %d, want 1", claim.Len())
	}

	want := []string{"A:before", "B:before", "handler", "B:after", "A:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	called := false
	final := func(_ context.Context, _ *middleware.Request) (fluent.State, error) {
		called = true
		return nil, nil
	}

	handler := middleware.Chain()(final)
	if _, err := handler(context.Background(), &middleware.Request{}); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if !called {
		t.Error("final handler was not called")
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	final := func(_ context.Context, req *middleware.Request) (fluent.State, error) {
		return fluent.ParseState("(source " + req.Source + ")"), nil
	}

	claim, err := middleware.Noop()(final)(context.Background(), &middleware.Request{Source: "oracle"})
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if !claim.Has(fluent.Normalize("(source oracle)")) {
		t.Errorf("claim = %v, want (source oracle)", claim.Strings())
	}
}
