package smartcontract

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, p Parameter) Parameter {
	t.Helper()
	data, err := p.MarshalJSON()
	require.NoError(t, err)
	var got Parameter
	require.NoError(t, got.UnmarshalJSON(data))
	return got
}

func TestParameterJSONRoundTripScalarTypes(t *testing.T) {
	bp := NewBoolParameter(true)
	got := roundTrip(t, bp)
	assert.Equal(t, BoolType, got.Type)
	assert.Equal(t, true, got.Value)

	ip := NewIntegerParameter(big.NewInt(-42))
	got = roundTrip(t, ip)
	assert.Equal(t, IntegerType, got.Type)
	assert.Equal(t, 0, big.NewInt(-42).Cmp(got.Value.(*big.Int)))

	sp := NewStringParameter("hello")
	got = roundTrip(t, sp)
	assert.Equal(t, "hello", got.Value)

	bap := NewByteArrayParameter([]byte{0x01, 0x02, 0x03})
	got = roundTrip(t, bap)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.Value)
}

func TestParameterSignatureMustBe64Bytes(t *testing.T) {
	_, err := NewSignatureParameter(make([]byte, 63))
	assert.Error(t, err)

	sig := make([]byte, 64)
	p, err := NewSignatureParameter(sig)
	require.NoError(t, err)
	got := roundTrip(t, p)
	assert.Equal(t, SignatureType, got.Type)
	assert.Equal(t, sig, got.Value)
}

func TestParameterHashTypesRoundTrip(t *testing.T) {
	var h160 util.Uint160
	h160[0] = 0xAB
	p := NewHash160Parameter(h160)
	got := roundTrip(t, p)
	assert.Equal(t, h160, got.Value)

	var h256 util.Uint256
	h256[0] = 0xCD
	p2 := NewHash256Parameter(h256)
	got2 := roundTrip(t, p2)
	assert.Equal(t, h256, got2.Value)
}

func TestParameterPublicKeyRoundTrip(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	p := NewPublicKeyParameter(priv.PublicKey())
	got := roundTrip(t, p)
	pub := got.Value.(*keys.PublicKey)
	assert.True(t, priv.PublicKey().Equal(pub))
}

func TestParameterArrayAndVoid(t *testing.T) {
	arr := NewArrayParameter(NewBoolParameter(true), NewStringParameter("x"))
	got := roundTrip(t, arr)
	items := got.Value.([]Parameter)
	require.Len(t, items, 2)
	assert.Equal(t, BoolType, items[0].Type)
	assert.Equal(t, StringType, items[1].Type)

	v := NewVoidParameter()
	gotV := roundTrip(t, v)
	assert.Equal(t, VoidType, gotV.Type)
	assert.Nil(t, gotV.Value)
}

func TestParameterMapRejectsArrayOrMapKeys(t *testing.T) {
	badKey := NewArrayParameter()
	_, err := NewMapParameter(ParameterPair{Key: badKey, Value: NewBoolParameter(true)})
	assert.Error(t, err)
}

func TestParameterMapRoundTrip(t *testing.T) {
	m, err := NewMapParameter(
		ParameterPair{Key: NewStringParameter("k1"), Value: NewIntegerParameter(big.NewInt(1))},
		ParameterPair{Key: NewStringParameter("k2"), Value: NewBoolParameter(false)},
	)
	require.NoError(t, err)
	got := roundTrip(t, m)
	pairs := got.Value.([]ParameterPair)
	require.Len(t, pairs, 2)
	assert.Equal(t, "k1", pairs[0].Key.Value)
}

func TestFromObjectMapsNativeTypes(t *testing.T) {
	p, err := FromObject(true)
	require.NoError(t, err)
	assert.Equal(t, BoolType, p.Type)

	p, err = FromObject(42)
	require.NoError(t, err)
	assert.Equal(t, IntegerType, p.Type)

	p, err = FromObject("hi")
	require.NoError(t, err)
	assert.Equal(t, StringType, p.Type)

	_, err = FromObject(3.14)
	assert.Error(t, err)
}

func TestParseParamTypeCaseInsensitive(t *testing.T) {
	for _, s := range []string{"signature", "Signature", "SiGnAtUrE"} {
		got, err := ParseParamType(s)
		require.NoError(t, err)
		assert.Equal(t, SignatureType, got)
	}
	_, err := ParseParamType("qwerty")
	assert.Error(t, err)
}
