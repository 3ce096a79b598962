package app

import (
	"encoding/json"
	"os"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// Genesis file format. AppState is passed to the application initializer,
// each extension reads its own key.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState harbor.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis file: %s", err)
	}
	return &gen, nil
}

// SaveGenesis writes given genesis as indented JSON.
func SaveGenesis(filePath string, gen *Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := os.WriteFile(filePath, raw, 0o600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write genesis: %s", err)
	}
	return nil
}
