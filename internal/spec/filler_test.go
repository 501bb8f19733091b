package spec

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evmfill/internal/domain"
)

const sampleFiller = `{
  "eips": [3855],
  "referenceSpec": {"gitPath": "EIPS/eip-3855.md", "version": "42bb3f6"},
  "tests": [
    {
      "name": "test_push0",
      "forks": ["Shanghai", "Cancun"],
      "stateTest": {
        "env": {
          "currentCoinbase": "0x2adc25665018aa1fe0e6bc666dac8fc2697ff9ba",
          "currentGasLimit": "0x016345785d8a0000",
          "currentNumber": "1",
          "currentTimestamp": "1000",
          "currentDifficulty": "0x20000",
          "currentBaseFee": "7"
        },
        "pre": {
          "0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b": {"balance": "1000000000000000000000", "nonce": "0x00"},
          "0x0000000000000000000000000000000000001000": {"balance": "0", "code": "0x5f600055", "storage": {"0x00": "0x01"}}
        },
        "txs": [{
          "type": "0x0", "nonce": "0x0", "to": "0x0000000000000000000000000000000000001000",
          "gas": "0x186a0", "gasPrice": "0xa", "value": "0x0", "input": "0x",
          "v": "0x0", "r": "0x0", "s": "0x0",
          "secretKey": "0x45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8"
        }],
        "post": {
          "0x0000000000000000000000000000000000001000": {"storage": {"0x00": "0x00"}},
          "0x00000000000000000000000000000000000000ff": null
        }
      }
    },
    {
      "name": "test_chain",
      "forks": ["Shanghai"],
      "fixtureName": "two_blocks",
      "blockchainTest": {
        "genesisEnvironment": {
          "currentCoinbase": "0x2adc25665018aa1fe0e6bc666dac8fc2697ff9ba",
          "currentGasLimit": "0x016345785d8a0000",
          "currentNumber": "0",
          "currentTimestamp": "0"
        },
        "pre": {},
        "blocks": [{"txs": []}, {"timestamp": "24", "txs": []}]
      }
    }
  ]
}`

func TestParseFillerFile(t *testing.T) {
	f, err := ParseFillerFile([]byte(sampleFiller))
	require.NoError(t, err)

	assert.Equal(t, []int{3855}, f.EIPs)
	assert.Equal(t, "EIPS/eip-3855.md", f.ReferenceSpec.GitPath)
	require.Len(t, f.Tests, 2)

	st := f.Tests[0]
	assert.Equal(t, []domain.TestKind{domain.KindState}, st.Kinds())
	require.NotNil(t, st.StateTest)
	assert.Len(t, st.StateTest.Pre, 2)
	assert.Equal(t, uint64(1000), uint64(st.StateTest.Env.Timestamp))

	code := st.StateTest.Pre[common.HexToAddress("0x1000")].Code
	assert.Equal(t, []byte{0x5f, 0x60, 0x00, 0x55}, code)

	post := st.StateTest.Post
	require.Contains(t, post, common.HexToAddress("0xff"))
	assert.Nil(t, post[common.HexToAddress("0xff")])

	bt := f.Tests[1]
	assert.Equal(t, []domain.TestKind{domain.KindBlockchain}, bt.Kinds())
	assert.Equal(t, "two_blocks", bt.FixtureName)
	assert.Len(t, bt.Spec().BlockSpecs(), 2)
}

func TestParseFillerFile_Errors(t *testing.T) {
	_, err := ParseFillerFile([]byte(`{"tests": [{"forks": ["London"]}]}`))
	assert.Error(t, err)

	_, err = ParseFillerFile([]byte(`{"tests": [`))
	assert.Error(t, err)
}

func TestFillerTest_KindsBoth(t *testing.T) {
	ft := FillerTest{Name: "t", StateTest: &StateTest{}, BlockchainTest: &BlockchainTest{}}
	assert.Equal(t, []domain.TestKind{domain.KindState, domain.KindBlockchain}, ft.Kinds())
	assert.Empty(t, (&FillerTest{Name: "t"}).Kinds())
}

func TestStateTest_Blocks(t *testing.T) {
	f, err := ParseFillerFile([]byte(sampleFiller))
	require.NoError(t, err)
	st := f.Tests[0].StateTest

	genesis := st.GenesisEnv()
	assert.Zero(t, uint64(genesis.Number))
	assert.Zero(t, uint64(genesis.Timestamp))
	assert.Equal(t, st.Env.GasLimit, genesis.GasLimit)

	blocks := st.BlockSpecs()
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(1000), uint64(*blocks[0].Timestamp))
	assert.Len(t, blocks[0].Txs, 1)
}
