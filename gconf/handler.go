package gconf

import (
	"reflect"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x"
)

// OwnedConfig is a configuration that can be changed only by its owner.
type OwnedConfig interface {
	Configuration
	GetOwner() harbor.Address
}

// PatchMsg is implemented by configuration update messages.
type PatchMsg interface {
	harbor.Msg
	// ConfigPatch returns the configuration holding the changed fields
	// or nil.
	ConfigPatch() OwnedConfig
}

// UpdateConfigurationHandler applies a PatchMsg to the stored
// configuration. Only fields of the patch that are not zero are changed.
type UpdateConfigurationHandler struct {
	pkg     string
	newConf func() OwnedConfig
	auth    x.Authenticator
}

var _ harbor.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler updating the
// configuration of given package. newConf must return a new, empty
// instance of the configuration. The configuration must exist, it can only
// be created in genesis.
func NewUpdateConfigurationHandler(pkg string, newConf func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, newConf: newConf, auth: auth}
}

func (h UpdateConfigurationHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return errors.Wrapf(errors.ErrInvalidMsg, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	patch := pm.ConfigPatch()
	if patch == nil || reflect.ValueOf(patch).IsNil() {
		return errors.Wrap(errors.ErrInvalidMsg, "patch is required")
	}

	conf := h.newConf()
	switch err := Load(db, h.pkg, conf); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration has no owner", h.pkg)
	case err != nil:
		return err
	}
	if owner := conf.GetOwner(); len(owner) == 0 || !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}

	if err := merge(conf, patch); err != nil {
		return err
	}
	return Save(db, h.pkg, conf)
}

// merge copies every non zero field of patch into conf. Both must be
// pointers to the same struct type.
func merge(conf, patch OwnedConfig) error {
	dst := reflect.ValueOf(conf)
	src := reflect.ValueOf(patch)
	if dst.Type() != src.Type() || dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInvalidType, "cannot patch %T with %T", conf, patch)
	}
	dst, src = dst.Elem(), src.Elem()
	for i := 0; i < src.NumField(); i++ {
		if f := src.Field(i); !f.IsZero() {
			dst.Field(i).Set(f)
		}
	}
	return nil
}
