package gconf

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// ReadStore is the part of harbor.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of harbor.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is implemented by every configuration entity.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// key returns the database key of the configuration of given package.
func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and stores the configuration of given package, replacing
// the previous one.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if no configuration was ever saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s configuration", pkg)
	}
	return nil
}

// InitConfig saves the configuration declared in the genesis under
// conf.<pkg>. A missing declaration is reported as ErrNotFound.
func InitConfig(db Store, opts harbor.Options, pkg string, conf Configuration) error {
	var all harbor.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if len(all[pkg]) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%s configuration: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}
