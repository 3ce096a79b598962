package app

import (
	"fmt"
	"regexp"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch a transaction to the handler registered for the path of its
// message.
type Router struct {
	routes map[string]harbor.Handler
}

var _ harbor.Registry = (*Router)(nil)
var _ harbor.Handler = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]harbor.Handler),
	}
}

// Handle registers a handler for the path of given message. It panics if a
// handler for that path already exists or the path is not valid, as both
// are coding errors made during the application setup.
func (r *Router) Handle(msg harbor.Msg, h harbor.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the handler registered for given path.
func (r *Router) handler(path string) (harbor.Handler, error) {
	if h, ok := r.routes[path]; ok {
		return h, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}
