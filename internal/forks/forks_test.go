package forks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast("London", "London"))
	assert.True(t, AtLeast("Cancun", "Berlin"))
	assert.False(t, AtLeast("Berlin", "London"))
	assert.False(t, AtLeast("Unknown", "Frontier"))
}

func TestFeatureGates(t *testing.T) {
	assert.False(t, HasBaseFee("Berlin"))
	assert.True(t, HasBaseFee("London"))
	assert.False(t, IsPostMerge("London"))
	assert.True(t, IsPostMerge("Paris"))
	assert.False(t, HasWithdrawals("Paris"))
	assert.True(t, HasWithdrawals("Shanghai"))
	assert.False(t, HasBlobs("Shanghai"))
	assert.True(t, HasBlobs("Cancun"))
}

func TestBlockReward(t *testing.T) {
	assert.Equal(t, int64(5e18), BlockReward("Frontier"))
	assert.Equal(t, int64(3e18), BlockReward("Byzantium"))
	assert.Equal(t, int64(2e18), BlockReward("London"))
	assert.Equal(t, int64(0), BlockReward("Paris"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("Shanghai"))
	assert.Error(t, Validate("shanghai"))
}

func TestWithEIPs(t *testing.T) {
	assert.Equal(t, "London", WithEIPs("London", nil))
	assert.Equal(t, "London+3855+3860", WithEIPs("London", []int{3855, 3860}))
}
