package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarwallet/relay/internal/domain/operation"
	"github.com/stellarwallet/relay/internal/domain/wallet"
)

const (
	keyMain  = "GMAINAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAMAIN"
	keyOther = "GOTHERBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBOTHR"
	keyExt   = "GEXTCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCEXT"
)

type defaults map[int64]string

func (d defaults) GetDefault(_ context.Context, userID int64) (*wallet.Wallet, error) {
	k, ok := d[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &wallet.Wallet{UserID: userID, PublicKey: k, IsDefault: true}, nil
}

func render(t *testing.T, r *Renderer, op operation.Operation, p operation.Perspective) string {
	t.Helper()
	s, err := r.Render(context.Background(), op, p, 1)
	require.NoError(t, err)
	return s
}

func TestRender_PaymentIncomingDefaultWallet(t *testing.T) {
	r := New(defaults{1: keyMain})
	op := operation.Operation{Type: operation.TypePayment, ForAccount: keyMain, FromAccount: keyExt, Amount: "10.5000000", Asset: "XLM"}

	assert.Equal(t, "Received 10.5 XLM from <code>GEXT…CEXT</code>", render(t, r, op, operation.PerspectiveIncoming))
}

func TestRender_NonDefaultWalletIsLabelled(t *testing.T) {
	r := New(defaults{1: keyMain})
	op := operation.Operation{Type: operation.TypePayment, ForAccount: keyExt, FromAccount: keyOther, Amount: "3", Asset: "USDC"}

	got := render(t, r, op, operation.PerspectiveOutgoing)
	assert.Equal(t, "Sent 3 USDC to <code>GEXT…CEXT</code>\nWallet: <code>GOTH…OTHR</code>", got)
}

func TestRender_LookupFailureOmitsLabel(t *testing.T) {
	r := New(defaults{})
	op := operation.Operation{Type: operation.TypeCreateAccount, ForAccount: keyOther, Amount: "5", Asset: "XLM"}
	assert.Equal(t, "Account activated with 5 XLM", render(t, r, op, operation.PerspectiveIncoming))
}

func TestRender_EscapesUserControlledText(t *testing.T) {
	r := New(nil)
	op := operation.Operation{
		Type: operation.TypeManageData, ForAccount: keyMain,
		DataName: "<b>x</b>", DataValue: "a&b", Memo: "<script>",
	}
	got := render(t, r, op, operation.PerspectiveIncoming)
	assert.Equal(t, "Data entry <code>&lt;b&gt;x&lt;/b&gt;</code> set to <code>a&amp;b</code>\nMemo: &lt;script&gt;", got)
}

func TestRender_SwapAndOffer(t *testing.T) {
	r := New(nil)
	swap := operation.Operation{
		Type: operation.TypePathPaymentStrictSend, ForAccount: keyMain, FromAccount: keyMain,
		SentAmount: "10.0", SentAsset: "XLM", ReceivedAmount: "21.5", ReceivedAsset: "EURMTL",
	}
	assert.Equal(t, "Swapped 10 XLM for 21.5 EURMTL", render(t, r, swap, operation.PerspectiveSelf))

	offer := operation.Operation{
		Type: operation.TypeManageSellOffer, ForAccount: keyMain,
		OfferID: "99999", Amount: "100", Asset: "MTL", Price: "0.50", SecondaryAsset: "XLM",
	}
	assert.Equal(t, "Offer #99999: sell 100 MTL at 0.5 XLM", render(t, r, offer, operation.PerspectiveIncoming))
}

func TestRender_Unknown(t *testing.T) {
	r := New(nil)
	op := operation.Operation{Type: operation.TypeUnknown, RawType: "set_options", ForAccount: "GSHORT", TransactionHash: "abcdef0123456789"}
	assert.Equal(t, "New operation <b>set_options</b> on <code>GSHORT</code>\nTx: <code>abcd…6789</code>", render(t, r, op, operation.PerspectiveIncoming))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "0", Amount(""))
	assert.Equal(t, "0", Amount("0.0000000"))
	assert.Equal(t, "1234.5", Amount("1234.5000000"))
	assert.Equal(t, "n/a", Amount("n/a"))
}
