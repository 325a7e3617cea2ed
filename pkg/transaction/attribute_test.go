package transaction

import (
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/internal/testserdes"
	"github.com/stretchr/testify/require"
)

func TestHighPriorityAttributeEncodeDecode(t *testing.T) {
	expected := &Attribute{Type: HighPriorityT}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestOracleResponseAttributeEncodeDecode(t *testing.T) {
	a := NewOracleResponseAttribute(42, OracleSuccess, []byte("result"))
	expected := &a
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestAttributeDecodeUnknownType(t *testing.T) {
	a := &Attribute{}
	err := testserdes.DecodeBinary([]byte{0x7f}, a)
	require.Error(t, err)
}

func TestOracleResponseAttributeJSON(t *testing.T) {
	a := NewOracleResponseAttribute(7, OracleNotFound, []byte{1, 2})
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(data), `"type":"OracleResponse"`)
}
