package assert

import (
	"fmt"
	"testing"

	"github.com/safeharbor/harbor/errors"
)

// recorder counts failures instead of stopping the test.
type recorder struct {
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatal(args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprint(args...))
}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestAssertions(t *testing.T) {
	var typedNil *errors.Error

	cases := map[string]struct {
		run      func(Tester)
		wantFail bool
	}{
		"same error":          {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.ErrEmpty) }},
		"wrapped error":       {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.Wrap(errors.ErrEmpty, "seed")) }},
		"both errors nil":     {run: func(t Tester) { IsErr(t, nil, nil) }},
		"error compared nil":  {run: func(t Tester) { IsErr(t, nil, errors.ErrEmpty) }, wantFail: true},
		"other error":         {run: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.ErrNotFound) }, wantFail: true},
		"equal bytes":         {run: func(t Tester) { Equal(t, []byte("a"), []byte("a")) }},
		"different bytes":     {run: func(t Tester) { Equal(t, []byte("a"), []byte("b")) }, wantFail: true},
		"different int types": {run: func(t Tester) { Equal(t, int64(1), 1) }, wantFail: true},
		"nil":                 {run: func(t Tester) { Nil(t, nil) }},
		"typed nil":           {run: func(t Tester) { Nil(t, typedNil) }},
		"not nil":             {run: func(t Tester) { Nil(t, errors.ErrEmpty) }, wantFail: true},
		"zero int":            {run: func(t Tester) { Nil(t, 0) }, wantFail: true},
		"panics":              {run: func(t Tester) { Panics(t, func() { panic("boom") }) }},
		"does not panic":      {run: func(t Tester) { Panics(t, func() {}) }, wantFail: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var r recorder
			tc.run(&r)
			if failed := len(r.failures) > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %q", tc.wantFail, r.failures)
			}
		})
	}
}
