package orm

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// ErrInvalidIndex is returned when a bucket is queried by an index it does
// not maintain. Codes 100 to 109 are reserved for this package.
var ErrInvalidIndex = errors.Register(100, "invalid index")

// Model is implemented by every entity stored in a bucket.
type Model interface {
	harbor.Persistent
	Validate() error
	Copy() Model
}

// ModelSlicePtr is a pointer to a slice of models, either []MyModel or
// []*MyModel. The type is checked at runtime.
type ModelSlicePtr interface{}
