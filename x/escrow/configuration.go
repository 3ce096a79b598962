package escrow

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/gconf"
)

const confPkg = "escrow"

// Configuration is the escrow package configuration.
type Configuration struct {
	// Owner may update the configuration.
	Owner harbor.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	// Reserve is charged from the maker for every created escrow and
	// returned when the escrow is closed. Empty means no reserve.
	Reserve coin.Coins `protobuf:"bytes,2,rep,name=reserve,proto3" json:"reserve,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() harbor.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if len(c.Reserve) > 0 {
		if err := c.Reserve.Validate(); err != nil {
			return errors.Wrap(err, "reserve")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal((*configurationMsg)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*configurationMsg)(c))
}

// loadConf returns the current configuration. A missing configuration is
// an empty one, which charges no reserve.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var c Configuration
	switch err := gconf.Load(db, confPkg, &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

// UpdateConfigurationMsg patches the escrow configuration. Zero value
// fields of the patch are not changed.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch"`
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "escrow/update_configuration"
}

// ConfigPatch returns the patch or nil.
func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if len(m.Patch.Reserve) > 0 {
		if err := m.Patch.Reserve.Validate(); err != nil {
			return errors.Wrap(err, "reserve")
		}
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*updateConfigurationMsg)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*updateConfigurationMsg)(m))
}

// Wire forms, without the codec methods.
type (
	configurationMsg       Configuration
	updateConfigurationMsg UpdateConfigurationMsg
)

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return codec.Text(m) }
func (*configurationMsg) ProtoMessage()    {}

func (m *updateConfigurationMsg) Reset()         { *m = updateConfigurationMsg{} }
func (m *updateConfigurationMsg) String() string { return codec.Text(m) }
func (*updateConfigurationMsg) ProtoMessage()    {}
