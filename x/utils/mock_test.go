package utils

import (
	"github.com/safeharbor/harbor"
	"github.com/stretchr/testify/mock"
)

// mockHandler is a harbor.Handler whose behaviour is scripted per test.
type mockHandler struct {
	mock.Mock
}

var _ harbor.Handler = (*mockHandler)(nil)

func (m *mockHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	args := m.Called(ctx, db, tx)
	res, _ := args.Get(0).(*harbor.CheckResult)
	return res, args.Error(1)
}

func (m *mockHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	args := m.Called(ctx, db, tx)
	res, _ := args.Get(0).(*harbor.DeliverResult)
	return res, args.Error(1)
}

// writeKey returns a mock.Run callback storing a key in the store passed to
// the handler.
func writeKey(key, value []byte) func(mock.Arguments) {
	return func(args mock.Arguments) {
		db := args.Get(1).(harbor.KVStore)
		if err := db.Set(key, value); err != nil {
			panic(err)
		}
	}
}
