package harbortest

import "github.com/safeharbor/harbor"

// Handler is a harbor.Handler mock returning the configured result, or the
// configured error if set. Every call is counted.
type Handler struct {
	calls

	CheckResult   harbor.CheckResult
	CheckErr      error
	DeliverResult harbor.DeliverResult
	DeliverErr    error
}

var _ harbor.Handler = (*Handler)(nil)

func (h *Handler) Check(harbor.Context, harbor.KVStore, harbor.Tx) (*harbor.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(harbor.Context, harbor.KVStore, harbor.Tx) (*harbor.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}
