package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWIFKnownAnswer(t *testing.T) {
	hexKey := "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d"
	wantWIF := "KwDidQJHSE67VJ6MWRvbBKAxhD3F48DvqRT6JRqrjd7MHLBjGF7V"

	p, err := NewPrivateKeyFromHex(hexKey)
	require.NoError(t, err)
	assert.Equal(t, wantWIF, p.WIF())

	back, err := NewPrivateKeyFromWIF(wantWIF)
	require.NoError(t, err)
	assert.Equal(t, p.Bytes(), back.Bytes())
}

func TestWIFRoundTripRandom(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	wif := p.WIF()
	back, err := NewPrivateKeyFromWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, p.Bytes(), back.Bytes())
}

func TestWIFBadChecksum(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	wif := p.WIF()
	tampered := wif[:len(wif)-1] + "1"
	_, err = NewPrivateKeyFromWIF(tampered)
	assert.Error(t, err)
}

func TestWIFWrongLength(t *testing.T) {
	_, err := NewPrivateKeyFromWIF("not a wif")
	assert.Error(t, err)
}
