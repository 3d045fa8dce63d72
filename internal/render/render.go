// Package render formats operations as Telegram HTML messages.
package render

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/stellarwallet/relay/internal/domain/notification"
	"github.com/stellarwallet/relay/internal/domain/operation"
	"github.com/stellarwallet/relay/internal/domain/wallet"
)

// DefaultWallets is the part of wallet.Repo the renderer needs.
type DefaultWallets interface {
	GetDefault(ctx context.Context, userID int64) (*wallet.Wallet, error)
}

// Renderer mentions the wallet only when it is not the user's default one.
type Renderer struct {
	wallets DefaultWallets
}

var _ notification.Renderer = (*Renderer)(nil)

func New(wallets DefaultWallets) *Renderer {
	return &Renderer{wallets: wallets}
}

func (r *Renderer) Render(ctx context.Context, op operation.Operation, p operation.Perspective, userID int64) (string, error) {
	var b strings.Builder
	b.WriteString(headline(op, p))

	if own := ownAccount(op, p); own != "" && !r.isDefault(ctx, userID, own) {
		fmt.Fprintf(&b, "\nWallet: <code>%s</code>", Short(own))
	}
	if op.Memo != "" {
		fmt.Fprintf(&b, "\nMemo: %s", esc(op.Memo))
	}
	if op.TransactionHash != "" {
		fmt.Fprintf(&b, "\nTx: <code>%s</code>", Short(op.TransactionHash))
	}
	return b.String(), nil
}

// isDefault treats lookup failures as "default" so the label is just omitted.
func (r *Renderer) isDefault(ctx context.Context, userID int64, key string) bool {
	if r.wallets == nil {
		return true
	}
	w, err := r.wallets.GetDefault(ctx, userID)
	if err != nil || w == nil {
		return true
	}
	return w.PublicKey == key
}

func ownAccount(op operation.Operation, p operation.Perspective) string {
	if p == operation.PerspectiveOutgoing {
		return op.FromAccount
	}
	return op.ForAccount
}

func headline(op operation.Operation, p operation.Perspective) string {
	amt := func(a, asset string) string { return Amount(a) + " " + esc(asset) }

	switch op.Type {
	case operation.TypePayment:
		switch p {
		case operation.PerspectiveOutgoing:
			return fmt.Sprintf("Sent %s to <code>%s</code>", amt(op.Amount, op.Asset), Short(op.ForAccount))
		case operation.PerspectiveSelf:
			return fmt.Sprintf("Moved %s between your wallets", amt(op.Amount, op.Asset))
		default:
			return fmt.Sprintf("Received %s from <code>%s</code>", amt(op.Amount, op.Asset), Short(op.FromAccount))
		}
	case operation.TypeCreateAccount:
		if p == operation.PerspectiveOutgoing {
			return fmt.Sprintf("Created account <code>%s</code> with %s", Short(op.ForAccount), amt(op.Amount, op.Asset))
		}
		return fmt.Sprintf("Account activated with %s", amt(op.Amount, op.Asset))
	case operation.TypePathPaymentStrictSend, operation.TypePathPaymentStrictReceive:
		if p == operation.PerspectiveIncoming {
			return fmt.Sprintf("Received %s (paid as %s)", amt(op.ReceivedAmount, op.ReceivedAsset), amt(op.SentAmount, op.SentAsset))
		}
		return fmt.Sprintf("Swapped %s for %s", amt(op.SentAmount, op.SentAsset), amt(op.ReceivedAmount, op.ReceivedAsset))
	case operation.TypeTrade:
		return fmt.Sprintf("Trade: sold %s for %s", amt(op.SentAmount, op.SentAsset), amt(op.ReceivedAmount, op.ReceivedAsset))
	case operation.TypeManageSellOffer, operation.TypeManageBuyOffer:
		side := "sell"
		if op.Type == operation.TypeManageBuyOffer {
			side = "buy"
		}
		s := fmt.Sprintf("Offer #%s: %s %s", esc(op.OfferID), side, amt(op.Amount, op.Asset))
		if op.Price != "" {
			s += fmt.Sprintf(" at %s %s", Amount(op.Price), esc(op.SecondaryAsset))
		}
		return s
	case operation.TypeManageData:
		if op.DataValue == "" {
			return fmt.Sprintf("Data entry <code>%s</code> removed", esc(op.DataName))
		}
		return fmt.Sprintf("Data entry <code>%s</code> set to <code>%s</code>", esc(op.DataName), esc(op.DataValue))
	case operation.TypeAccountDebited:
		return fmt.Sprintf("Balance debited: %s", amt(op.Amount, op.Asset))
	case operation.TypeAccountCredited:
		return fmt.Sprintf("Balance credited: %s", amt(op.Amount, op.Asset))
	default:
		name := op.RawType
		if name == "" {
			name = string(operation.TypeUnknown)
		}
		return fmt.Sprintf("New operation <b>%s</b> on <code>%s</code>", esc(name), Short(op.ForAccount))
	}
}

// Amount drops trailing zeros; unparseable input is returned escaped as is.
func Amount(s string) string {
	if s == "" {
		return "0"
	}
	d := operation.ParseAmount(s)
	if d.IsZero() && strings.Trim(s, "0.") != "" {
		return esc(s)
	}
	return d.String()
}

// Short abbreviates long keys and hashes as ABCD…WXYZ.
func Short(s string) string {
	if len(s) <= 12 {
		return esc(s)
	}
	return esc(s[:4] + "…" + s[len(s)-4:])
}

func esc(s string) string { return html.EscapeString(s) }
