// Package config holds the process-wide options an RPC client and
// transaction builder are constructed with: node address, protocol
// constants, and feature toggles. Grounded on the way neo-go's
// pkg/config loads node/wallet configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAddressVersion is the Neo N3 mainnet/testnet address version
// byte (produces addresses starting with 'N').
const DefaultAddressVersion = 0x35

// DefaultBlockIntervalMS is the expected milliseconds between blocks.
const DefaultBlockIntervalMS = 15000

// DefaultMaxValidUntilBlockIncrement bounds how far into the future a
// transaction's ValidUntilBlock may be set relative to the current height.
const DefaultMaxValidUntilBlockIncrement = 5760

// Options is the process-wide configuration handed to an RPC client and
// a transaction builder at construction time.
type Options struct {
	NodeURL                     string `yaml:"node_url"`
	AddressVersion              byte   `yaml:"address_version"`
	NetworkMagic                uint32 `yaml:"network_magic"`
	NetworkMagicSet             bool   `yaml:"-"`
	BlockIntervalMS             uint32 `yaml:"block_interval_ms"`
	MaxValidUntilBlockIncrement uint32 `yaml:"max_valid_until_block_increment"`
	AllowTransmissionOnFault    bool   `yaml:"allow_transmission_on_fault"`
	NNSResolver                 string `yaml:"nns_resolver"`
	IncludeRawResponses         bool   `yaml:"include_raw_responses"`
}

// yamlOptions mirrors Options but lets NetworkMagic be omitted in the
// file (NetworkMagicSet then stays false, and the client is expected to
// discover it from getversion).
type yamlOptions struct {
	NodeURL                     string  `yaml:"node_url"`
	AddressVersion              *byte   `yaml:"address_version"`
	NetworkMagic                *uint32 `yaml:"network_magic"`
	BlockIntervalMS             uint32  `yaml:"block_interval_ms"`
	MaxValidUntilBlockIncrement uint32  `yaml:"max_valid_until_block_increment"`
	AllowTransmissionOnFault    bool    `yaml:"allow_transmission_on_fault"`
	NNSResolver                 string  `yaml:"nns_resolver"`
	IncludeRawResponses         bool    `yaml:"include_raw_responses"`
}

// Default returns an Options populated with Neo N3 mainnet/testnet's
// protocol defaults; NodeURL and NetworkMagic are left unset since
// they're network-specific and have no safe default.
func Default() Options {
	return Options{
		AddressVersion:              DefaultAddressVersion,
		BlockIntervalMS:             DefaultBlockIntervalMS,
		MaxValidUntilBlockIncrement: DefaultMaxValidUntilBlockIncrement,
	}
}

// Load reads and parses a YAML configuration file, filling in any field
// the file omits with the protocol default.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes into an Options value.
func Parse(data []byte) (Options, error) {
	var y yamlOptions
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Options{}, fmt.Errorf("config: parsing yaml: %w", err)
	}
	opts := Default()
	opts.NodeURL = y.NodeURL
	if y.AddressVersion != nil {
		opts.AddressVersion = *y.AddressVersion
	}
	if y.NetworkMagic != nil {
		opts.NetworkMagic = *y.NetworkMagic
		opts.NetworkMagicSet = true
	}
	if y.BlockIntervalMS != 0 {
		opts.BlockIntervalMS = y.BlockIntervalMS
	}
	if y.MaxValidUntilBlockIncrement != 0 {
		opts.MaxValidUntilBlockIncrement = y.MaxValidUntilBlockIncrement
	}
	opts.AllowTransmissionOnFault = y.AllowTransmissionOnFault
	opts.NNSResolver = y.NNSResolver
	opts.IncludeRawResponses = y.IncludeRawResponses
	return opts, nil
}
