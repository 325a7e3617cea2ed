package rpc

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/transaction"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/stretchr/testify/require"
)

// fakeTransport is an in-memory Transport double that returns a
// canned response JSON or error, recording the last request it saw.
type fakeTransport struct {
	response string
	err      error
	lastReq  string
}

func (f *fakeTransport) Call(_ context.Context, requestJSON string) (string, error) {
	f.lastReq = requestJSON
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestClientGetBlockCount(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":12345}`}
	c := NewClient(ft, nil, false)
	n, err := c.GetBlockCount(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 12345, n)
	require.Contains(t, ft.lastReq, `"method":"getblockcount"`)
}

func TestClientMapsRPCError(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","error":{"code":-500,"message":"bad request"}}`}
	c := NewClient(ft, nil, false)
	_, err := c.GetBlockCount(context.Background())
	require.Error(t, err)
	require.True(t, neoerr.Is(err, neoerr.RPCError))
}

func TestClientMapsTransportError(t *testing.T) {
	ft := &fakeTransport{err: errBoom}
	c := NewClient(ft, nil, false)
	_, err := c.GetBlockCount(context.Background())
	require.Error(t, err)
	require.True(t, neoerr.Is(err, neoerr.TransportError))
}

func TestClientMapsMalformedEnvelope(t *testing.T) {
	ft := &fakeTransport{response: `not json`}
	c := NewClient(ft, nil, false)
	_, err := c.GetBlockCount(context.Background())
	require.Error(t, err)
	require.True(t, neoerr.Is(err, neoerr.SerializationError))
}

func TestClientInvokeScriptEncodesBase64(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":{"state":"HALT","gasconsumed":"123","script":"AQID","stack":[],"notifications":[]}}`}
	c := NewClient(ft, nil, false)
	res, err := c.InvokeScript(context.Background(), []byte{0x01, 0x02, 0x03}, nil)
	require.NoError(t, err)
	require.Equal(t, "HALT", res.State)
	require.Contains(t, ft.lastReq, `"params":["AQID"]`)
}

func TestClientSendRawTransaction(t *testing.T) {
	var h util.Uint256
	h[0] = 0xAB
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":{"hash":"0x` + h.String() + `"}}`}
	c := NewClient(ft, nil, false)
	res, err := c.SendRawTransaction(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, h, res.Hash)
}

func TestClientInvokeFunctionIncludesSigners(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":{"state":"HALT","gasconsumed":"0","script":"","stack":[],"notifications":[]}}`}
	c := NewClient(ft, nil, false)
	var contract util.Uint160
	signers := []transaction.Signer{{Account: contract, Scopes: transaction.CalledByEntry}}
	_, err := c.InvokeFunction(context.Background(), contract, "transfer", []interface{}{}, signers)
	require.NoError(t, err)
	require.Contains(t, ft.lastReq, `"transfer"`)
}

func TestClientIncludeRawResponses(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":1}`}
	c := NewClient(ft, nil, true)
	_, err := c.GetBlockCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, ft.response, c.LastRawResponse())

	c2 := NewClient(ft, nil, false)
	_, err = c2.GetBlockCount(context.Background())
	require.NoError(t, err)
	require.Empty(t, c2.LastRawResponse())
}

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}

func TestClientGetNEP17BalancesUsesAddress(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":{"balance":[{"assethash":"0xa48b6e1291ba24211ad11bb90ae2a10bf1fcd5a8","symbol":"N17","decimals":"8","name":"Token","amount":"50000000000","lastupdatedblock":251604}],"address":"NU5uC5ZgGbwaSgrrguxosiS2GQUtqEvk6F"}}`}
	c := NewClient(ft, nil, false)
	hash, err := util.Uint160DecodeStringLE("a48b6e1291ba24211ad11bb90ae2a10bf1fcd5a8")
	require.NoError(t, err)
	res, err := c.GetNEP17Balances(context.Background(), hash)
	require.NoError(t, err)
	require.Len(t, res.Balances, 1)
	require.Equal(t, "N17", res.Balances[0].Symbol)
	require.NotContains(t, ft.lastReq, hash.StringLE())
}

func TestClientGetStorageByHashDecodesBase64(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":"TGlu"}`}
	c := NewClient(ft, nil, false)
	var hash util.Uint160
	out, err := c.GetStorageByHash(context.Background(), hash, []byte("Peter"))
	require.NoError(t, err)
	require.Equal(t, []byte("Lin"), out)
}

func TestClientGetStateDecodesBase64(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":"dGVzdHZhbHVl"}`}
	c := NewClient(ft, nil, false)
	var root util.Uint256
	var contract util.Uint160
	out, err := c.GetState(context.Background(), root, contract, []byte("testkey"))
	require.NoError(t, err)
	require.Equal(t, []byte("testvalue"), out)
}

func TestClientFindStatesDecodesPage(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":{"results":[{"key":"YWExMA==","value":"djI="}],"truncated":true}}`}
	c := NewClient(ft, nil, false)
	var root util.Uint256
	var contract util.Uint160
	count := 1
	out, err := c.FindStates(context.Background(), root, contract, []byte("aa"), []byte("aa00"), &count)
	require.NoError(t, err)
	require.True(t, out.Truncated)
	require.Len(t, out.Results, 1)
	require.Equal(t, []byte("aa10"), out.Results[0].Key)
	require.Equal(t, []byte("v2"), out.Results[0].Value)
}

func TestClientRequirePluginMissing(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":[{"name":"RpcNep17Tracker","version":"3.0","interfaces":[]}]}`}
	c := NewClient(ft, nil, false)
	err := c.RequirePlugin(context.Background(), "Client.GetState", "StateService")
	require.Error(t, err)
	require.True(t, neoerr.Is(err, neoerr.UnsupportedOperation))
}

func TestClientRequirePluginPresent(t *testing.T) {
	ft := &fakeTransport{response: `{"jsonrpc":"2.0","id":"1","result":[{"name":"StateService","version":"3.0","interfaces":[]}]}`}
	c := NewClient(ft, nil, false)
	err := c.RequirePlugin(context.Background(), "Client.GetState", "statEService")
	require.NoError(t, err)
}

func TestClientSubmitBlockFallsBackToHexOnEncodingMismatch(t *testing.T) {
	hash := util.Uint256{0xAB}
	attempts := 0
	ft := &scriptedSubmitTransport{
		onCall: func() (string, error) {
			attempts++
			if attempts == 1 {
				return `{"jsonrpc":"2.0","id":"1","error":{"code":-32602,"message":"Invalid Params"}}`, nil
			}
			return `{"jsonrpc":"2.0","id":"1","result":{"hash":"0x` + hash.String() + `"}}`, nil
		},
	}
	c := NewClient(ft, nil, false)
	got, err := c.SubmitBlock(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, hash, got)
	require.Equal(t, 2, attempts)
}

type scriptedSubmitTransport struct {
	onCall func() (string, error)
}

func (s *scriptedSubmitTransport) Call(_ context.Context, _ string) (string, error) {
	return s.onCall()
}

func TestClientGetContractStateUsesCacheOnSecondLookup(t *testing.T) {
	var hashParam util.Uint160
	hashParam[0] = 7
	calls := 0
	ft := &scriptedSubmitTransport{onCall: func() (string, error) {
		calls++
		return `{"jsonrpc":"2.0","id":"1","result":{"id":1,"hash":"0x` + hashParam.String() + `","updatecounter":0}}`, nil
	}}
	c := NewClient(ft, nil, false)
	cache, err := hash.NewCache(10, 1<<20, 0)
	require.NoError(t, err)
	c.SetContractStateCache(cache)

	first, err := c.GetContractState(context.Background(), hashParam)
	require.NoError(t, err)
	second, err := c.GetContractState(context.Background(), hashParam)
	require.NoError(t, err)

	require.Equal(t, first.Hash, second.Hash)
	require.Equal(t, 1, calls)
}
