package checkout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/payments/card"
	"github.com/greenbasket/storefront/internal/payments/wallet"
	"github.com/greenbasket/storefront/internal/platform"
	"github.com/greenbasket/storefront/internal/repository"
	"github.com/greenbasket/storefront/pkg/errors"
)

// PlatformAPI is the slice of the platform client checkout needs.
type PlatformAPI interface {
	CreateOrder(ctx context.Context, token string, req platform.CreateOrderRequest) (*platform.CreateOrderResponse, error)
	GetPaymentStatus(ctx context.Context, token, orderID string) (*platform.PaymentStatusResult, error)
	InitiateWalletPayment(ctx context.Context, token, provider, orderID, accountNumber string) (*platform.WalletRedirect, error)
	NotifyPaymentFailed(ctx context.Context, token, intentID, reason string) error
}

// CardGateway confirms card payment intents. Processing intents are
// resolved against the platform's payment status, not the processor,
// so confirmation is the only call checkout needs.
type CardGateway interface {
	ConfirmIntent(ctx context.Context, intent *domain.PaymentIntent, cardToken string, billing card.BillingDetails) (*card.ConfirmResult, error)
}

// CartStore is the slice of the cart store checkout needs.
type CartStore interface {
	GetOrEmpty(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// SubmitRequest carries everything a checkout attempt needs beyond the
// cart itself.
type SubmitRequest struct {
	Shipping             domain.ShippingAddress `json:"shipping"`
	DeliverySlot         string                 `json:"delivery_slot"`
	DeliveryInstructions string                 `json:"delivery_instructions"`
	PaymentMethod        domain.PaymentMethod   `json:"payment_method"`
	WalletAccountNumber  string                 `json:"wallet_account_number,omitempty"`
	CardToken            string                 `json:"card_token,omitempty"`
}

// Result is the outcome of a checkout attempt. Redirect is set only for
// wallet methods, whose resolution is deferred to the callback handler.
type Result struct {
	State    domain.CheckoutState     `json:"state"`
	Order    *domain.Order            `json:"order,omitempty"`
	Message  string                   `json:"message,omitempty"`
	Redirect *platform.WalletRedirect `json:"redirect,omitempty"`
}

// CallbackResult is the outcome of a wallet callback.
type CallbackResult struct {
	State       domain.CheckoutState `json:"state"`
	OrderID     string               `json:"order_id"`
	OrderNumber string               `json:"order_number,omitempty"`
	Message     string               `json:"message"`
	Verified    bool                 `json:"verified"`
	RedirectTo  string               `json:"redirect_to"`
}

// Service orchestrates checkout: validation gates, order creation
// against the platform, then one of three payment continuations. The
// cart is cleared only on confirmed success so any failure leaves the
// shopper able to retry.
type Service struct {
	platform PlatformAPI
	cards    CardGateway
	carts    CartStore
	gateways map[string]*wallet.Gateway
	repos    *repository.Repositories
	logger   *zap.Logger

	// processingWait is the single fixed pause before the one-shot
	// status poll when a card confirmation comes back processing.
	processingWait time.Duration

	verifyGroup singleflight.Group
}

// NewService wires a checkout service.
func NewService(
	platformAPI PlatformAPI,
	cards CardGateway,
	carts CartStore,
	gateways map[string]*wallet.Gateway,
	repos *repository.Repositories,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		platform:       platformAPI,
		cards:          cards,
		carts:          carts,
		gateways:       gateways,
		repos:          repos,
		logger:         logger,
		processingWait: 2 * time.Second,
	}
}

func walletDisplayName(provider string) string {
	switch provider {
	case wallet.ProviderPayFast:
		return "PayFast"
	case wallet.ProviderEasyPay:
		return "EasyPay"
	default:
		return provider
	}
}

// validate runs the submission gates in their fixed order. Nothing here
// touches the network except the Redis cart read.
func (s *Service) validate(ctx context.Context, claims domain.Claims, req SubmitRequest) (*domain.Cart, error) {
	if !domain.IsValidDeliverySlot(req.DeliverySlot) {
		return nil, &errors.ErrValidation{Message: "Please select a delivery time slot"}
	}

	if req.PaymentMethod == "" || !req.PaymentMethod.IsValid() {
		return nil, &errors.ErrValidation{Message: "Please select a payment method"}
	}

	if req.PaymentMethod.IsWallet() && !wallet.ValidAccountNumber(req.WalletAccountNumber) {
		return nil, &errors.ErrValidation{
			Message: fmt.Sprintf("%s requires an 11-digit account number starting with 03",
				walletDisplayName(req.PaymentMethod.WalletProvider())),
			Fields: map[string]string{"wallet_account_number": "invalid format"},
		}
	}

	cart, err := s.carts.GetOrEmpty(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, &errors.ErrValidation{Message: "Your cart is empty"}
	}

	if claims.UserID == "" {
		return nil, &errors.ErrUnauthorized{Message: "sign in to continue"}
	}

	if req.PaymentMethod == domain.PaymentMethodCard && req.CardToken == "" {
		return nil, &errors.ErrValidation{Message: "Please complete your card details"}
	}

	return cart, nil
}

// Submit runs one checkout attempt end to end.
func (s *Service) Submit(ctx context.Context, claims domain.Claims, token string, req SubmitRequest) (*Result, error) {
	cart, err := s.validate(ctx, claims, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Creating order",
		zap.String("user_id", claims.UserID),
		zap.String("payment_method", string(req.PaymentMethod)),
		zap.Int("item_count", len(cart.Items)),
	)

	created, err := s.platform.CreateOrder(ctx, token, platform.CreateOrderRequest{
		Items:                cart.Items,
		Shipping:             req.Shipping,
		DeliverySlot:         req.DeliverySlot,
		DeliveryInstructions: req.DeliveryInstructions,
		PaymentMethod:        req.PaymentMethod,
		Tax:                  0,
		ShippingFee:          0,
		Total:                cart.TotalPrice(),
	})
	if err != nil {
		s.logger.Error("Order creation failed", zap.Error(err))
		return nil, err
	}
	order := created.Order

	switch {
	case req.PaymentMethod == domain.PaymentMethodCOD:
		return s.complete(ctx, claims.UserID, &order)

	case req.PaymentMethod.IsWallet():
		return s.startWalletRedirect(ctx, token, req, &order)

	default:
		return s.confirmCard(ctx, claims.UserID, token, req, &order, created.PaymentIntent)
	}
}

// complete clears the cart and reports success. Used by COD and
// successful card confirmations.
func (s *Service) complete(ctx context.Context, userID string, order *domain.Order) (*Result, error) {
	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists; a stale cart is recoverable. Log and go on.
		s.logger.Warn("Failed to clear cart after order", zap.Error(err), zap.String("user_id", userID))
	}
	s.logger.Info("Order placed", zap.String("order_number", order.OrderNumber))
	return &Result{
		State:   domain.StateSuccess,
		Order:   order,
		Message: fmt.Sprintf("Order %s placed successfully", order.OrderNumber),
	}, nil
}

// startWalletRedirect initiates a wallet payment and hands the gateway
// form back to the caller. The cart is intentionally NOT cleared; the
// callback handler finishes the attempt after the gateway redirects the
// shopper back.
func (s *Service) startWalletRedirect(ctx context.Context, token string, req SubmitRequest, order *domain.Order) (*Result, error) {
	provider := req.PaymentMethod.WalletProvider()
	redirect, err := s.platform.InitiateWalletPayment(ctx, token, provider, order.ID, req.WalletAccountNumber)
	if err != nil {
		s.logger.Error("Wallet initiate failed", zap.Error(err), zap.String("provider", provider))
		return nil, err
	}

	// The storefront holds the merchant credentials, so it finishes the
	// form itself: merchant identity, return URL, and the signature over
	// the final field set.
	if gw, ok := s.gateways[provider]; ok {
		redirect.Fields = gw.PrepareFields(redirect.Fields)
		if redirect.GatewayURL == "" {
			redirect.GatewayURL = gw.InitiateURL()
		}
	}

	s.logger.Info("Wallet redirect started",
		zap.String("provider", provider),
		zap.String("order_id", order.ID),
	)
	return &Result{
		State:    domain.StateRedirectPending,
		Order:    order,
		Redirect: redirect,
	}, nil
}

func (s *Service) confirmCard(ctx context.Context, userID, token string, req SubmitRequest, order *domain.Order, intent *domain.PaymentIntent) (*Result, error) {
	if intent == nil || intent.ClientSecret == "" {
		return nil, &errors.ErrUpstream{
			Operation: "create order",
			Message:   "platform returned no payment intent for card order",
		}
	}

	billing := card.BillingDetails{
		Name:       req.Shipping.Name,
		Email:      req.Shipping.Email,
		Phone:      req.Shipping.Phone,
		Address:    req.Shipping.Address,
		PostalCode: req.Shipping.PostalCode,
	}

	result, err := s.cards.ConfirmIntent(ctx, intent, req.CardToken, billing)
	if err != nil {
		if card.IsValidationError(err) {
			return nil, &errors.ErrValidation{Message: "Please complete your card details"}
		}
		// Best-effort: let the platform mark the intent failed, then
		// surface the processor's message verbatim.
		if notifyErr := s.platform.NotifyPaymentFailed(ctx, token, intent.ID, err.Error()); notifyErr != nil {
			s.logger.Warn("Failed to notify platform of failed intent", zap.Error(notifyErr))
		}
		s.recordEvent(ctx, order.ID, "card", "failed", false, map[string]string{"error": err.Error()})
		return nil, &errors.ErrPaymentDeclined{IntentID: intent.ID, Message: err.Error()}
	}

	switch result.Status {
	case card.StatusSucceeded:
		s.recordEvent(ctx, order.ID, "card", string(result.Status), true, nil)
		return s.complete(ctx, userID, order)

	case card.StatusProcessing:
		// One-shot resolution: wait briefly, ask the platform once, and
		// treat a still-processing payment as provisionally successful.
		time.Sleep(s.processingWait)
		status, pollErr := s.platform.GetPaymentStatus(ctx, token, order.ID)
		if pollErr == nil && status.PaymentStatus == domain.PaymentStatusFailed {
			s.recordEvent(ctx, order.ID, "card", "failed", true, nil)
			return nil, &errors.ErrPaymentDeclined{IntentID: intent.ID, Message: "Payment failed"}
		}
		if pollErr != nil {
			s.logger.Warn("Payment status poll failed, assuming async confirmation", zap.Error(pollErr))
		}
		s.recordEvent(ctx, order.ID, "card", "processing", false, nil)
		return s.complete(ctx, userID, order)

	case card.StatusRequiresAction:
		s.recordEvent(ctx, order.ID, "card", string(result.Status), false, nil)
		return &Result{
			State:   domain.StateFailed,
			Order:   order,
			Message: "Your bank requires additional authentication to complete this payment",
		}, nil

	case card.StatusRequiresPaymentMethod:
		s.recordEvent(ctx, order.ID, "card", string(result.Status), false, nil)
		return &Result{
			State:   domain.StateFailed,
			Order:   order,
			Message: "Your payment method was declined, please try another card",
		}, nil

	default:
		return nil, &errors.ErrPaymentDeclined{
			IntentID: intent.ID,
			Message:  fmt.Sprintf("unexpected payment status %q", result.Status),
		}
	}
}

// CompleteWalletCallback interprets a gateway redirect. The redirect
// parameters are a hint only: success is declared solely on the
// platform's payment status. Either outcome is recorded in the audit
// trail.
func (s *Service) CompleteWalletCallback(ctx context.Context, provider string, params map[string]string) (*CallbackResult, error) {
	if !wallet.ValidProvider(provider) {
		return nil, &errors.ErrValidation{Message: fmt.Sprintf("unknown payment provider %q", provider)}
	}

	orderID := params["order_id"]
	orderNumber := params["order_number"]
	status := params["status"]

	sigOK := false
	if gw, ok := s.gateways[provider]; ok {
		sigOK = gw.VerifyCallback(params)
	}
	s.logger.Info("Wallet callback received",
		zap.String("provider", provider),
		zap.String("order_id", orderID),
		zap.String("status", status),
		zap.Bool("signature_valid", sigOK),
	)

	if status != "success" {
		message := params["message"]
		if message == "" {
			message = "Payment was not completed"
		}
		s.recordEvent(ctx, orderID, provider, status, sigOK, params)
		return &CallbackResult{
			State:       domain.StateFailed,
			OrderID:     orderID,
			OrderNumber: orderNumber,
			Message:     message,
			RedirectTo:  "/orders",
		}, nil
	}

	if orderID == "" {
		return nil, &errors.ErrValidation{Message: "callback missing order_id"}
	}

	// Re-verify with the platform before trusting the redirect. The
	// singleflight group collapses duplicate callbacks for one order.
	v, err, _ := s.verifyGroup.Do(orderID, func() (interface{}, error) {
		return s.platform.GetPaymentStatus(ctx, "", orderID)
	})
	if err != nil {
		s.recordEvent(ctx, orderID, provider, "success_unverified", sigOK, params)
		s.logger.Error("Payment verification failed", zap.Error(err), zap.String("order_id", orderID))
		return &CallbackResult{
			State:       domain.StateFailed,
			OrderID:     orderID,
			OrderNumber: orderNumber,
			Message:     "Payment could not be verified, please check your order history",
			RedirectTo:  "/orders",
		}, nil
	}
	verified := v.(*platform.PaymentStatusResult)

	if verified.PaymentStatus != domain.PaymentStatusPaid {
		s.recordEvent(ctx, orderID, provider, "success_unverified", sigOK, params)
		s.logger.Warn("Callback claimed success but platform disagrees",
			zap.String("order_id", orderID),
			zap.String("platform_status", string(verified.PaymentStatus)),
		)
		return &CallbackResult{
			State:       domain.StateFailed,
			OrderID:     orderID,
			OrderNumber: orderNumber,
			Message:     "Payment could not be verified, please check your order history",
			RedirectTo:  "/orders",
		}, nil
	}

	// Verified paid: clear the owner's cart (idempotent) and confirm.
	if verified.UserID != "" {
		if clearErr := s.carts.Clear(ctx, verified.UserID); clearErr != nil {
			s.logger.Warn("Failed to clear cart after verified payment", zap.Error(clearErr))
		}
	}
	if verified.OrderNumber != "" {
		orderNumber = verified.OrderNumber
	}
	s.recordEvent(ctx, orderID, provider, "success", true, params)

	return &CallbackResult{
		State:       domain.StateSuccess,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Message:     fmt.Sprintf("Order %s paid successfully", orderNumber),
		Verified:    true,
		RedirectTo:  "/orders",
	}, nil
}

// recordEvent writes a payment audit record. Best effort: the flow does
// not fail on audit errors.
func (s *Service) recordEvent(ctx context.Context, orderID, provider, status string, verified bool, raw map[string]string) {
	if s.repos == nil || s.repos.PaymentEvent == nil {
		return
	}
	event := &domain.PaymentEvent{
		OrderID:   orderID,
		Provider:  provider,
		Status:    status,
		Verified:  verified,
		RawParams: raw,
	}
	if err := s.repos.PaymentEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record payment event", zap.Error(err))
	}
}
