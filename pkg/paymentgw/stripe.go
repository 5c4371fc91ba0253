package paymentgw

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/balance"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/transfer"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Webhook olay tipleri (dispatch anahtarları).
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
	EventPaymentLinkPaid          = "payment_link.paid"
	EventPaymentLinkExpired       = "payment_link.expired"
)

// CheckoutParams bir katkı için checkout oturumu oluşturma parametreleri.
type CheckoutParams struct {
	AmountCents int64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession sağlayıcıda oluşturulan oturumun yerelde gereken alanları.
type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway ödeme sağlayıcısına giden çağrıları soyutlar.
// Servisler bu arayüze bağımlıdır; testlerde sahte implementasyon kullanılır.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CreateTransfer(ctx context.Context, amountCents int64, currency, destinationAccountID, description string) (string, error)
	PayoutsEnabled(ctx context.Context, accountID string) (bool, error)
	AvailableBalance(ctx context.Context, currency string) (int64, error)
}

// StripeGateway Gateway arayüzünün stripe-go implementasyonudur.
type StripeGateway struct{}

// New global API anahtarını ayarlayıp gateway'i döndürür.
func New(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

// CreateCheckoutSession tek kalemlik bir ödeme oturumu açar.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// CreateTransfer platform bakiyesinden bağlı hesaba transfer başlatır.
func (g *StripeGateway) CreateTransfer(ctx context.Context, amountCents int64, currency, destinationAccountID, description string) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Destination: stripe.String(destinationAccountID),
		Description: stripe.String(description),
	}
	params.Context = ctx

	tr, err := transfer.New(params)
	if err != nil {
		return "", err
	}
	return tr.ID, nil
}

// PayoutsEnabled bağlı hesabın payout alıp alamayacağını kontrol eder.
func (g *StripeGateway) PayoutsEnabled(ctx context.Context, accountID string) (bool, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acct, err := account.GetByID(accountID, params)
	if err != nil {
		return false, err
	}
	return acct.PayoutsEnabled, nil
}

// AvailableBalance verilen para birimindeki kullanılabilir platform bakiyesi.
func (g *StripeGateway) AvailableBalance(ctx context.Context, currency string) (int64, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	bal, err := balance.Get(params)
	if err != nil {
		return 0, err
	}
	return availableIn(bal, currency), nil
}

// availableIn bakiye kalemlerinden istenen para birimindekini seçer.
// Para biriminde kalem yoksa bakiye sıfırdır.
func availableIn(bal *stripe.Balance, currency string) int64 {
	for _, amt := range bal.Available {
		if string(amt.Currency) == currency {
			return amt.Amount
		}
	}
	return 0
}

// VerifyEvent imzalı webhook gövdesini doğrular ve olayı çözer.
// API sürüm farkları yoksayılır; imza doğrulaması zorunludur.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

var _ Gateway = (*StripeGateway)(nil)
