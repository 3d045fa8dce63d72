package operation

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePayment                  Type = "payment"
	TypeCreateAccount            Type = "create_account"
	TypePathPaymentStrictSend    Type = "path_payment_strict_send"
	TypePathPaymentStrictReceive Type = "path_payment_strict_receive"
	TypeTrade                    Type = "trade"
	TypeManageSellOffer          Type = "manage_sell_offer"
	TypeManageBuyOffer           Type = "manage_buy_offer"
	TypeManageData               Type = "manage_data"
	TypeAccountDebited           Type = "account_debited"
	TypeAccountCredited          Type = "account_credited"
	TypeUnknown                  Type = "unknown"
)

var known = map[Type]struct{}{
	TypePayment:                  {},
	TypeCreateAccount:            {},
	TypePathPaymentStrictSend:    {},
	TypePathPaymentStrictReceive: {},
	TypeTrade:                    {},
	TypeManageSellOffer:          {},
	TypeManageBuyOffer:           {},
	TypeManageData:               {},
	TypeAccountDebited:           {},
	TypeAccountCredited:          {},
}

// ParseType maps a raw type string onto Type; anything unrecognised is TypeUnknown.
func ParseType(s string) Type {
	t := Type(s)
	if _, ok := known[t]; ok {
		return t
	}
	return TypeUnknown
}

const (
	AssetNative  = "XLM"
	AssetUnknown = "UNK"
)

// Operation is a single ledger event in normalized form.
//
// Amount/Asset hold the primary (received side) pair, SecondaryAmount/
// SecondaryAsset the sent side. Path payments and trades additionally carry
// the explicit Sent*/Received* fields.
type Operation struct {
	ID              string
	Type            Type
	RawType         string
	FromAccount     string
	ForAccount      string
	TransactionHash string
	Memo            string
	CreatedAt       time.Time

	Amount          string
	Asset           string
	SecondaryAmount string
	SecondaryAsset  string

	SentAmount     string
	SentAsset      string
	ReceivedAmount string
	ReceivedAsset  string

	OfferID   string
	Price     string
	DataName  string
	DataValue string
}

// Accounts returns the non-empty involved accounts, for_account first.
func (o Operation) Accounts() []string {
	out := make([]string, 0, 2)
	if o.ForAccount != "" {
		out = append(out, o.ForAccount)
	}
	if o.FromAccount != "" && o.FromAccount != o.ForAccount {
		out = append(out, o.FromAccount)
	}
	return out
}

// PrimaryAmount parses Amount; zero when absent or malformed.
func (o Operation) PrimaryAmount() decimal.Decimal {
	return ParseAmount(o.Amount)
}

func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type Perspective string

const (
	PerspectiveIncoming Perspective = "incoming"
	PerspectiveOutgoing Perspective = "outgoing"
	PerspectiveSelf     Perspective = "self"
)

// PerspectiveFor tells how the wallet with publicKey is involved in o.
func (o Operation) PerspectiveFor(publicKey string) Perspective {
	isFor := o.ForAccount != "" && o.ForAccount == publicKey
	isFrom := o.FromAccount != "" && o.FromAccount == publicKey
	switch {
	case isFor && isFrom:
		return PerspectiveSelf
	case isFrom:
		return PerspectiveOutgoing
	default:
		return PerspectiveIncoming
	}
}
