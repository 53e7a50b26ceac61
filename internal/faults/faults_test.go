package faults

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	base := errors.New("boom")

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"configuration", Configuration("bad setting %q", "x"), KindConfiguration},
		{"transient", Transient(base), KindTransient},
		{"permanent", Permanent(base), KindPermanent},
		{"unmarked defaults to transient", base, KindTransient},
		{"context canceled", context.Canceled, KindCancelled},
		{"deadline exceeded", context.DeadlineExceeded, KindCancelled},
		{"wrapped cancellation wins over marking", Transient(fmt.Errorf("call: %w", context.Canceled)), KindCancelled},
		{"wrapped fault", fmt.Errorf("outer: %w", Permanent(base)), KindPermanent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if IsConfiguration(nil) || IsTransient(nil) || IsPermanent(nil) || IsCancelled(nil) {
		t.Error("predicates must be false for nil")
	}
	if !IsConfiguration(Configuration("bad")) {
		t.Error("IsConfiguration false for configuration error")
	}
	if !IsPermanent(Permanent(errors.New("skip"))) {
		t.Error("IsPermanent false for permanent error")
	}
	if !IsCancelled(fmt.Errorf("op: %w", context.Canceled)) {
		t.Error("IsCancelled false for wrapped cancellation")
	}
}

func TestMarkersPassNil(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestUnwrap(t *testing.T) {
	base := errors.New("underlying")
	err := Permanent(fmt.Errorf("stage: %w", base))
	if !errors.Is(err, base) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
}
