package handlers

import (
	"encoding/json"

	"hediye.link/configs/configsapp"
	"hediye.link/configs/configslog"
	"hediye.link/pkg/paymentgw"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	stripe "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// StripeWebhookHandler ödeme sağlayıcısından gelen olayları işler.
type StripeWebhookHandler struct {
	service       services.IContributionService
	webhookSecret string
}

// NewStripeWebhookHandler yeni bir StripeWebhookHandler örneği oluşturur.
func NewStripeWebhookHandler(service services.IContributionService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		service:       service,
		webhookSecret: configsapp.Get().StripeWebhookSecret,
	}
}

// NewStripeWebhookHandlerWith testlerde secret'ı değiştirmek için kullanılır.
func NewStripeWebhookHandlerWith(service services.IContributionService, secret string) *StripeWebhookHandler {
	return &StripeWebhookHandler{service: service, webhookSecret: secret}
}

// Handle imzayı doğrular ve olayı tipine göre işler.
// İmza geçersizse 400 döner. İmza geçerliyse yerel işleme hatası olsa bile
// 200 döner; aksi halde sağlayıcı aynı olayı tekrar tekrar teslim eder.
func (h *StripeWebhookHandler) Handle(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	event, err := paymentgw.VerifyEvent(payload, sigHeader, h.webhookSecret)
	if err != nil {
		configslog.Log.Warn("Webhook: imza doğrulanamadı", zap.Error(err))
		return c.SendStatus(fiber.StatusBadRequest)
	}

	ctx := c.UserContext()
	switch string(event.Type) {
	case paymentgw.EventCheckoutSessionCompleted:
		session, err := parseCheckoutSession(event)
		if err != nil {
			configslog.Log.Error("Webhook: checkout oturumu çözümlenemedi", zap.Error(err))
			break
		}
		if err := h.service.HandleCheckoutCompleted(ctx, session.ID, session.Metadata); err != nil {
			configslog.Log.Error("Webhook: checkout.session.completed işlenemedi",
				zap.String("providerRef", session.ID), zap.Error(err))
		}

	case paymentgw.EventCheckoutSessionExpired:
		session, err := parseCheckoutSession(event)
		if err != nil {
			configslog.Log.Error("Webhook: checkout oturumu çözümlenemedi", zap.Error(err))
			break
		}
		if err := h.service.HandleCheckoutExpired(ctx, session.ID); err != nil {
			configslog.Log.Error("Webhook: checkout.session.expired işlenemedi",
				zap.String("providerRef", session.ID), zap.Error(err))
		}

	case paymentgw.EventPaymentLinkPaid:
		link, err := parsePaymentLink(event)
		if err != nil {
			configslog.Log.Error("Webhook: payment link çözümlenemedi", zap.Error(err))
			break
		}
		if err := h.service.HandlePaymentLinkPaid(ctx, link.ID); err != nil {
			configslog.Log.Error("Webhook: payment_link.paid işlenemedi",
				zap.String("providerRef", link.ID), zap.Error(err))
		}

	case paymentgw.EventPaymentLinkExpired:
		link, err := parsePaymentLink(event)
		if err != nil {
			configslog.Log.Error("Webhook: payment link çözümlenemedi", zap.Error(err))
			break
		}
		if err := h.service.HandlePaymentLinkExpired(ctx, link.ID); err != nil {
			configslog.Log.Error("Webhook: payment_link.expired işlenemedi",
				zap.String("providerRef", link.ID), zap.Error(err))
		}

	default:
		configslog.SLog.Infof("Webhook: işlenmeyen olay tipi: %s", event.Type)
	}

	return c.SendStatus(fiber.StatusOK)
}

func parseCheckoutSession(event stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func parsePaymentLink(event stripe.Event) (*stripe.PaymentLink, error) {
	var link stripe.PaymentLink
	if err := json.Unmarshal(event.Data.Raw, &link); err != nil {
		return nil, err
	}
	return &link, nil
}
