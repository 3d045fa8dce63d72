package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarwallet/relay/internal/domain/operation"
)

func mustNormalize(t *testing.T, raw string) operation.Operation {
	t.Helper()
	res := Normalize([]byte(raw))
	require.NoError(t, res.Err)
	require.True(t, res.OK())
	return res.Op
}

func TestPayment_NativeWithoutCode(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"payment","from":"GA","to":"GB","amount":"12.5","asset_type":"native"}`)
	assert.Equal(t, operation.TypePayment, op.Type)
	assert.Equal(t, "GB", op.ForAccount)
	assert.Equal(t, "GA", op.FromAccount)
	assert.Equal(t, "12.5", op.Amount)
	assert.Equal(t, operation.AssetNative, op.Asset)
}

func TestPayment_CreditAsset(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"payment","to":"GB","amount":"3","asset_type":"credit_alphanum12","asset_code":"EURMTL"}`)
	assert.Equal(t, "EURMTL", op.Asset)
}

func TestPayment_NumericAmountKeepsText(t *testing.T) {
	op := mustNormalize(t, `{"id":42,"type":"payment","to":"GB","amount":100.0000001}`)
	assert.Equal(t, "42", op.ID)
	assert.Equal(t, "100.0000001", op.Amount)
}

func TestCreateAccount(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"create_account","funder":"GF","account":"GN","starting_balance":"5.0000000"}`)
	assert.Equal(t, "GN", op.ForAccount)
	assert.Equal(t, "GF", op.FromAccount)
	assert.Equal(t, "5.0000000", op.Amount)
	assert.Equal(t, operation.AssetNative, op.Asset)
}

func TestStrictSend_DestAmountForm(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"path_payment_strict_send","from":"GA","to":"GB",
		"amount":"10.0","asset_code":"XLM","dest_amount":"21.5","dest_asset_code":"EURMTL"
	}`)
	assert.Equal(t, "10.0", op.SentAmount)
	assert.Equal(t, "XLM", op.SentAsset)
	assert.Equal(t, "21.5", op.ReceivedAmount)
	assert.Equal(t, "EURMTL", op.ReceivedAsset)
	assert.NotEqual(t, op.SentAmount, op.ReceivedAmount)

	assert.Equal(t, "21.5", op.Amount)
	assert.Equal(t, "10.0", op.SecondaryAmount)
}

func TestStrictSend_SourceAmountForm(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"path_payment_strict_send","to":"GB",
		"source_amount":"10.0","source_asset_type":"native","amount":"21.5","asset_code":"USDC"
	}`)
	assert.Equal(t, "10.0", op.SentAmount)
	assert.Equal(t, "XLM", op.SentAsset)
	assert.Equal(t, "21.5", op.ReceivedAmount)
	assert.Equal(t, "USDC", op.ReceivedAsset)
}

func TestStrictReceive(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"path_payment_strict_receive","from":"GA","to":"GB",
		"amount":"7","asset_code":"USDC","source_amount":"70","source_asset_code":"MTL"
	}`)
	assert.Equal(t, "7", op.ReceivedAmount)
	assert.Equal(t, "USDC", op.ReceivedAsset)
	assert.Equal(t, "70", op.SentAmount)
	assert.Equal(t, "MTL", op.SentAsset)
	assert.Equal(t, "7", op.Amount)
	assert.Equal(t, "USDC", op.Asset)
	assert.Equal(t, "70", op.SecondaryAmount)
	assert.Equal(t, "MTL", op.SecondaryAsset)
}

func TestOffer_CreatedOfferIDFallback(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"manage_sell_offer","source_account":"GA",
		"offer_id":"0","created_offer_id":"99999",
		"amount":"100","price":"0.5","selling_asset_code":"MTL","buying_asset_type":"native"
	}`)
	assert.Equal(t, "99999", op.OfferID)
	assert.Equal(t, "GA", op.ForAccount)
	assert.Equal(t, "MTL", op.Asset)
	assert.Equal(t, "XLM", op.SecondaryAsset)
	assert.Equal(t, "0.5", op.Price)
}

func TestOffer_ExistingOfferID(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"manage_buy_offer","account":"GA","offer_id":"123","created_offer_id":"999","buying_asset_code":"USDC"}`)
	assert.Equal(t, "123", op.OfferID)
	assert.Equal(t, "USDC", op.Asset)
}

func TestOffer_NumericZeroOfferID(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"manage_sell_offer","account":"GA","offer_id":0,"created_offer_id":77}`)
	assert.Equal(t, "77", op.OfferID)
}

func TestTrade(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"trade","account":"GA","seller":"GS",
		"sold_amount":"5","sold_asset_type":"native","bought_amount":"2","bought_asset_code":"USDC"
	}`)
	assert.Equal(t, "GA", op.ForAccount)
	assert.Equal(t, "GS", op.FromAccount)
	assert.Equal(t, "5", op.SentAmount)
	assert.Equal(t, "XLM", op.SentAsset)
	assert.Equal(t, "2", op.Amount)
	assert.Equal(t, "USDC", op.Asset)
}

func TestManageData(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"manage_data","source_account":"GA","name":"mtl_delegate","value":"R0I="}`)
	assert.Equal(t, "GA", op.ForAccount)
	assert.Equal(t, "mtl_delegate", op.DataName)
	assert.Equal(t, "R0I=", op.DataValue)
	assert.Equal(t, "0", op.Amount)
	assert.Equal(t, operation.AssetUnknown, op.Asset)
}

func TestAccountCredited(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"account_credited","account":"GA","amount":"3","asset_code":"EURMTL"}`)
	assert.Equal(t, operation.TypeAccountCredited, op.Type)
	assert.Equal(t, "GA", op.ForAccount)
	assert.Equal(t, "EURMTL", op.Asset)
}

func TestUnknownType_IsStillDelivered(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"set_options","account":"GA"}`)
	assert.Equal(t, operation.TypeUnknown, op.Type)
	assert.Equal(t, "set_options", op.RawType)
	assert.Equal(t, "GA", op.ForAccount)
	assert.Equal(t, "0", op.Amount)
	assert.Equal(t, operation.AssetUnknown, op.Asset)
}

func TestDataMerge_TopLevelWins(t *testing.T) {
	op := mustNormalize(t, `{
		"id":"1","type":"payment","amount":"99",
		"data":{"id":"ignored","to":"GB","amount":"1","asset_code":"USDC","memo":"hi"}
	}`)
	assert.Equal(t, "1", op.ID)
	assert.Equal(t, "GB", op.ForAccount)
	assert.Equal(t, "99", op.Amount)
	assert.Equal(t, "USDC", op.Asset)
	assert.Equal(t, "hi", op.Memo)
}

func TestDataMerge_TypeFromNested(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","data":{"type":"create_account","account":"GN","starting_balance":"1"}}`)
	assert.Equal(t, operation.TypeCreateAccount, op.Type)
	assert.Equal(t, "GN", op.ForAccount)
}

func TestMetadata(t *testing.T) {
	op := mustNormalize(t, `{"id":"1","type":"payment","to":"GB","transaction_hash":"abc","created_at":"2024-05-01T10:00:00Z"}`)
	assert.Equal(t, "abc", op.TransactionHash)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), op.CreatedAt)
}

func TestFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"missing id", `{"type":"payment","to":"GB"}`, ErrMissingID},
		{"null id", `{"id":null,"type":"payment","to":"GB"}`, ErrMissingID},
		{"no account", `{"id":"1","type":"payment","amount":"1"}`, ErrUnattributed},
		{"unknown without account", `{"id":"1","type":"bump_sequence"}`, ErrUnattributed},
		{"not json", `not json`, ErrMalformed},
		{"array", `[1,2]`, ErrMalformed},
		{"null", `null`, ErrMalformed},
		{"trailing garbage", `{"id":"1","type":"payment","to":"GA"}{"broken`, ErrMalformed},
		{"two objects", `{"id":"1","type":"payment","to":"GA"} {}`, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize([]byte(tc.raw))
			assert.False(t, res.OK())
			assert.ErrorIs(t, res.Err, tc.want)
		})
	}
}

func TestFromMap(t *testing.T) {
	res := FromMap(map[string]any{"id": "1", "type": "payment", "to": "GB", "amount": 2.5})
	require.True(t, res.OK())
	assert.Equal(t, "2.5", res.Op.Amount)
}
