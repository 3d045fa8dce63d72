package operation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	assert.Equal(t, TypePayment, ParseType("payment"))
	assert.Equal(t, TypeManageBuyOffer, ParseType("manage_buy_offer"))
	assert.Equal(t, TypeUnknown, ParseType("set_options"))
	assert.Equal(t, TypeUnknown, ParseType(""))
}

func TestAccounts(t *testing.T) {
	assert.Equal(t, []string{"B", "A"}, Operation{FromAccount: "A", ForAccount: "B"}.Accounts())
	assert.Equal(t, []string{"A"}, Operation{FromAccount: "A", ForAccount: "A"}.Accounts())
	assert.Equal(t, []string{"A"}, Operation{FromAccount: "A"}.Accounts())
	assert.Empty(t, Operation{}.Accounts())
}

func TestPerspectiveFor(t *testing.T) {
	op := Operation{FromAccount: "A", ForAccount: "B"}
	assert.Equal(t, PerspectiveOutgoing, op.PerspectiveFor("A"))
	assert.Equal(t, PerspectiveIncoming, op.PerspectiveFor("B"))

	self := Operation{FromAccount: "A", ForAccount: "A"}
	assert.Equal(t, PerspectiveSelf, self.PerspectiveFor("A"))

	onlyFor := Operation{ForAccount: "B"}
	assert.Equal(t, PerspectiveIncoming, onlyFor.PerspectiveFor("B"))
}

func TestPrimaryAmount(t *testing.T) {
	assert.True(t, decimal.RequireFromString("12.5").Equal(Operation{Amount: "12.5000000"}.PrimaryAmount()))
	assert.True(t, Operation{Amount: "abc"}.PrimaryAmount().IsZero())
	assert.True(t, Operation{}.PrimaryAmount().IsZero())
}
