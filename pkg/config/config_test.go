package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFillsDefaults(t *testing.T) {
	opts, err := Parse([]byte(`node_url: "http://localhost:10332"`))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:10332", opts.NodeURL)
	require.EqualValues(t, DefaultAddressVersion, opts.AddressVersion)
	require.EqualValues(t, DefaultBlockIntervalMS, opts.BlockIntervalMS)
	require.False(t, opts.NetworkMagicSet)
}

func TestParseOverridesDefaults(t *testing.T) {
	opts, err := Parse([]byte(`
node_url: "http://localhost:10332"
address_version: 53
network_magic: 860833102
allow_transmission_on_fault: true
`))
	require.NoError(t, err)
	require.EqualValues(t, 53, opts.AddressVersion)
	require.True(t, opts.NetworkMagicSet)
	require.EqualValues(t, 860833102, opts.NetworkMagic)
	require.True(t, opts.AllowTransmissionOnFault)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}
