package normalizer

import "github.com/stellarwallet/relay/internal/domain/operation"

// assetCode returns the first present code. A missing code means the native
// asset whether or not asset_type says so.
func assetCode(p Payload, keys ...string) string {
	if code := p.First(keys...); code != "" {
		return code
	}
	return operation.AssetNative
}

func mapPayment(p Payload, op *operation.Operation) {
	op.ForAccount = p.Str("to")
	op.FromAccount = p.First("from", "source_account")
	op.Amount = p.Str("amount")
	op.Asset = assetCode(p, "asset_code")
}

func mapCreateAccount(p Payload, op *operation.Operation) {
	op.ForAccount = p.Str("account")
	op.FromAccount = p.First("funder", "source_account")
	op.Amount = p.Str("starting_balance")
	op.Asset = operation.AssetNative
}

// Strict-send: the rich notifier form carries amount (sent) and dest_amount
// (received); the Horizon form carries source_amount (sent) and amount
// (received).
func mapStrictSend(p Payload, op *operation.Operation) {
	op.ForAccount = p.Str("to")
	op.FromAccount = p.First("from", "source_account")
	if dest := p.Str("dest_amount"); dest != "" {
		op.SentAmount = p.Str("amount")
		op.SentAsset = assetCode(p, "source_asset_code", "asset_code")
		op.ReceivedAmount = dest
		op.ReceivedAsset = assetCode(p, "dest_asset_code", "asset_code")
	} else {
		op.SentAmount = p.Str("source_amount")
		op.SentAsset = assetCode(p, "source_asset_code")
		op.ReceivedAmount = p.Str("amount")
		op.ReceivedAsset = assetCode(p, "asset_code")
	}
	fillPrimary(op)
}

func mapStrictReceive(p Payload, op *operation.Operation) {
	op.ForAccount = p.Str("to")
	op.FromAccount = p.First("from", "source_account")
	op.ReceivedAmount = p.Str("amount")
	op.ReceivedAsset = assetCode(p, "asset_code")
	op.SentAmount = p.Str("source_amount")
	op.SentAsset = assetCode(p, "source_asset_code")
	fillPrimary(op)
}

// Trades are reported from the point of view of account: it sold to seller.
func mapTrade(p Payload, op *operation.Operation) {
	op.ForAccount = p.First("account", "base_account", "to")
	op.FromAccount = p.First("seller", "counter_account")
	op.SentAmount = p.Str("sold_amount")
	op.SentAsset = assetCode(p, "sold_asset_code")
	op.ReceivedAmount = p.Str("bought_amount")
	op.ReceivedAsset = assetCode(p, "bought_asset_code")
	fillPrimary(op)
}

func mapOffer(p Payload, op *operation.Operation) {
	op.ForAccount = p.First("source_account", "account", "to")
	op.FromAccount = p.Str("from")
	op.OfferID = offerID(p)
	op.Amount = p.Str("amount")
	op.Price = p.Str("price")
	if op.Type == operation.TypeManageBuyOffer {
		op.Asset = assetCode(p, "buying_asset_code")
		op.SecondaryAsset = assetCode(p, "selling_asset_code")
	} else {
		op.Asset = assetCode(p, "selling_asset_code")
		op.SecondaryAsset = assetCode(p, "buying_asset_code")
	}
}

func offerID(p Payload) string {
	id := p.Str("offer_id")
	if id == "" || id == "0" {
		return p.Str("created_offer_id")
	}
	return id
}

func mapData(p Payload, op *operation.Operation) {
	op.ForAccount = p.First("source_account", "account", "to")
	op.DataName = p.Str("name")
	op.DataValue = p.Str("value")
	op.Amount = "0"
	op.Asset = operation.AssetUnknown
}

func mapAccountEffect(p Payload, op *operation.Operation) {
	op.ForAccount = p.First("account", "to")
	op.Amount = p.Str("amount")
	op.Asset = assetCode(p, "asset_code")
}

func fillPrimary(op *operation.Operation) {
	op.Amount, op.Asset = op.ReceivedAmount, op.ReceivedAsset
	op.SecondaryAmount, op.SecondaryAsset = op.SentAmount, op.SentAsset
}
