package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/notify"
	"zshop-storefront-api/internal/variant"
)

// State is a step of one checkout attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

const (
	RedirectLogin   = "/profile"
	RedirectSuccess = "/order-success"
)

// DefaultShippingFee is charged when none is configured.
var DefaultShippingFee = decimal.NewFromInt(30000)

// OrderSubmitter places the order upstream.
type OrderSubmitter interface {
	Checkout(ctx context.Context, payload models.CheckoutPayload) (*models.CheckoutResponse, error)
}

// ProductSource looks up a product for buy-now.
type ProductSource interface {
	Product(ctx context.Context, productID string) (*models.Product, error)
}

// CartSource returns the session's current cart.
type CartSource interface {
	Cart(ctx context.Context) (*models.Cart, error)
}

// AddressSource returns the session's saved addresses.
type AddressSource interface {
	Addresses(ctx context.Context) ([]models.Address, error)
}

// Observer is told about every finished attempt.
type Observer interface {
	CheckoutFinished(ctx context.Context, mode models.CheckoutMode, state State)
}

// userMessage is implemented by upstream errors that carry a message for the shopper.
type userMessage interface {
	UserMessage() string
}

// Request is one checkout attempt as sent by the app.
type Request struct {
	Mode          models.CheckoutMode `json:"mode"`
	ProductID     string              `json:"productId,omitempty"`
	SKU           string              `json:"sku,omitempty"`
	Quantity      int                 `json:"quantity,omitempty"`
	AddressID     string              `json:"addressId,omitempty"`
	FullName      string              `json:"fullName,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	Address       string              `json:"address,omitempty"`
	City          string              `json:"city,omitempty"`
	Email         string              `json:"email,omitempty"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	Notes         string              `json:"notes,omitempty"`

	// Set by the server, never read from the body.
	SessionKey     string `json:"-"`
	Authenticated  bool   `json:"-"`
	IdempotencyKey string `json:"-"`
}

// manualContact reports whether the field-entry variant is used.
func (r Request) manualContact() bool {
	return r.AddressID == "" && (r.FullName != "" || r.Phone != "" || r.Address != "")
}

// Outcome is the result of an attempt after it left the validating state.
type Outcome struct {
	State         State                   `json:"state"`
	Trace         []State                 `json:"trace"`
	Order         *models.Order           `json:"order,omitempty"`
	OrderID       string                  `json:"orderId,omitempty"`
	Redirect      string                  `json:"redirect,omitempty"`
	Message       string                  `json:"message,omitempty"`
	FieldErrors   []FieldError            `json:"fieldErrors,omitempty"`
	Notifications []notify.Notification   `json:"notifications,omitempty"`
	Summary       *Summary                `json:"summary,omitempty"`
	Payload       *models.CheckoutPayload `json:"-"`
	Input         Request                 `json:"input"`
	Replayed      bool                    `json:"replayed,omitempty"`
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
}

// Config wires an Orchestrator.
type Config struct {
	ShopID         string
	ShippingFee    decimal.Decimal
	Submitter      OrderSubmitter
	Products       ProductSource
	Cart           CartSource
	Addresses      AddressSource
	Notifier       notify.Notifier
	Observer       Observer
	IdempotencyTTL time.Duration
}

// Orchestrator runs checkout attempts.
type Orchestrator struct {
	cfg      Config
	guard    *SubmissionGuard
	notifier notify.Notifier
	replays  *cache.TTLCache[Outcome]
}

func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.ShippingFee.IsZero() {
		cfg.ShippingFee = DefaultShippingFee
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 10 * time.Minute
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Orchestrator{
		cfg:      cfg,
		guard:    NewSubmissionGuard(),
		notifier: notifier,
		replays:  cache.NewTTLCache[Outcome]("checkout_idempotency", cfg.IdempotencyTTL, time.Minute),
	}
}

// Close stops the idempotency cache.
func (o *Orchestrator) Close() {
	o.replays.Stop()
}

// Guard exposes the in-flight set for stats.
func (o *Orchestrator) Guard() *SubmissionGuard {
	return o.guard
}

// Submit runs one attempt. A nil Outcome means the attempt never started:
// the mode or items were rejected, or another submission is in flight.
// Otherwise the error, when set, is one of *ValidationError, ErrLoginRequired
// or *SubmitError and the Outcome describes what the shopper sees.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Outcome, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}

	replayKey := ""
	if req.IdempotencyKey != "" {
		replayKey = req.SessionKey + ":" + req.IdempotencyKey
		if prev, ok := o.replays.Get(replayKey); ok {
			slog.Info("Replaying checkout outcome", "session_key", req.SessionKey, "idempotency_key", req.IdempotencyKey)
			prev.Replayed = true
			return &prev, nil
		}
	}

	release, ok := o.guard.TryAcquire(req.SessionKey)
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	defer release()

	rec := notify.NewRecorder()
	n := notify.Multi{rec, o.notifier}
	out := &Outcome{Input: req}
	out.enter(StateIdle)
	observed := true
	defer func() {
		out.Notifications = rec.Notifications()
		if o.cfg.Observer != nil && observed {
			final := out.State
			if len(out.Trace) > 1 && out.Trace[len(out.Trace)-2] == StateFailed {
				final = StateFailed
			}
			o.cfg.Observer.CheckoutFinished(ctx, req.Mode, final)
		}
	}()

	// Contact is validated before items load; field entry needs no fetch.
	contact, selected, err := o.contact(ctx, req)
	if err != nil {
		return o.fail(out, n, err)
	}
	out.enter(StateValidating)
	if errs := Validate(contact, selected, req.PaymentMethod); len(errs) > 0 {
		out.FieldErrors = errs
		out.Message = errs[0].Issue
		n.Error(errs[0].Issue)
		out.enter(StateIdle)
		slog.Warn("Checkout rejected by validation", "session_key", req.SessionKey, "field", errs[0].Field, "issue", errs[0].Issue)
		return out, &ValidationError{Fields: errs}
	}

	items, err := o.items(ctx, &req)
	out.Input = req
	var itemErr *ItemError
	if errors.Is(err, ErrEmptyCheckout) || errors.As(err, &itemErr) {
		observed = false
		return nil, err
	}
	if err != nil {
		return o.fail(out, n, err)
	}

	if !req.Authenticated {
		out.Message = MsgLoginRequired
		out.Redirect = RedirectLogin
		n.Show(notify.LevelWarning, MsgLoginRequired)
		out.enter(StateFailed)
		out.enter(StateIdle)
		return out, ErrLoginRequired
	}

	info := models.CustomerInfo{
		CustomerName:  strings.TrimSpace(contact.FullName),
		CustomerPhone: strings.TrimSpace(contact.Phone),
		CustomerEmail: strings.TrimSpace(contact.Email),
		Address:       contact.Address,
		PaymentMethod: NormalizePaymentMethod(req.PaymentMethod),
		ShippingFee:   o.cfg.ShippingFee,
		Notes:         req.Notes,
	}
	payload := items.build(o.cfg.ShopID, info)
	summary := Summarize(payload.Items, o.cfg.ShippingFee)
	out.Payload = &payload
	out.Summary = &summary

	out.enter(StateSubmitting)
	resp, err := o.cfg.Submitter.Checkout(ctx, payload)
	if err == nil && resp != nil {
		err = resp.Validate()
	}
	if err != nil {
		return o.fail(out, n, err)
	}

	out.Order = resp.Order
	out.OrderID = resp.Order.OrderID()
	out.Redirect = RedirectSuccess + "?" + url.Values{"orderId": {out.OrderID}}.Encode()
	out.Message = MsgCheckoutSuccess
	n.Success(MsgCheckoutSuccess)
	out.enter(StateSuccess)

	slog.Info("Order placed",
		"session_key", req.SessionKey,
		"mode", string(req.Mode),
		"order_id", out.OrderID,
		"items", len(payload.Items),
		"total", summary.Total.String())

	if replayKey != "" {
		snapshot := *out
		snapshot.Notifications = rec.Notifications()
		o.replays.Set(replayKey, snapshot)
	}
	return out, nil
}

func (o *Orchestrator) fail(out *Outcome, n notify.Notifier, err error) (*Outcome, error) {
	msg := MsgCheckoutFailed
	var um userMessage
	if errors.As(err, &um) && um.UserMessage() != "" {
		msg = um.UserMessage()
	}
	out.Message = msg
	n.Error(msg)
	out.enter(StateFailed)
	out.enter(StateIdle)
	slog.Error("Checkout failed", "session_key", out.Input.SessionKey, "error", err)
	return out, &SubmitError{Message: msg, Err: err}
}

// lineItems is the resolved content of an attempt, whichever mode it came from.
type lineItems struct {
	mode     models.CheckoutMode
	product  *models.Product
	variant  *models.Variant
	quantity int
	cart     []models.CartItem
}

func (l lineItems) build(shopID string, info models.CustomerInfo) models.CheckoutPayload {
	if l.mode == models.ModeBuyNow {
		return BuildBuyNowPayload(shopID, *l.product, l.variant, l.quantity, info)
	}
	return BuildFromCartPayload(shopID, l.cart, info)
}

func (o *Orchestrator) items(ctx context.Context, req *Request) (lineItems, error) {
	if req.Mode == models.ModeFromCart {
		cart, err := o.cfg.Cart.Cart(ctx)
		if err != nil {
			return lineItems{}, fmt.Errorf("failed to load cart: %w", err)
		}
		if cart == nil || len(cart.Items) == 0 {
			return lineItems{}, ErrEmptyCheckout
		}
		return lineItems{mode: req.Mode, cart: cart.Items}, nil
	}

	if req.ProductID == "" {
		return lineItems{}, ErrEmptyCheckout
	}
	product, err := o.cfg.Products.Product(ctx, req.ProductID)
	if err != nil {
		return lineItems{}, fmt.Errorf("failed to load product %s: %w", req.ProductID, err)
	}

	chosen, err := variant.Pick(product.Variants, req.SKU)
	if err != nil {
		return lineItems{}, &ItemError{ProductID: product.ID, Issue: err.Error()}
	}

	quantity := variant.ClampQuantity(req.Quantity, chosen)
	if quantity != req.Quantity {
		slog.Debug("Checkout quantity clamped", "product_id", product.ID, "requested", req.Quantity, "quantity", quantity)
		req.Quantity = quantity
	}
	return lineItems{mode: req.Mode, product: product, variant: chosen, quantity: quantity}, nil
}

// contact picks what the order is delivered to. selected is false when the
// address-integrated flow has no address to offer.
func (o *Orchestrator) contact(ctx context.Context, req Request) (Contact, bool, error) {
	if req.manualContact() {
		return Contact{
			FullName: req.FullName,
			Phone:    req.Phone,
			Address:  joinAddress(req.Address, req.City),
			City:     req.City,
			Email:    req.Email,
		}, true, nil
	}

	addresses, err := o.cfg.Addresses.Addresses(ctx)
	if err != nil {
		return Contact{}, false, fmt.Errorf("failed to load addresses: %w", err)
	}
	a := SelectAddress(addresses, req.AddressID)
	if a == nil {
		return Contact{Email: req.Email}, false, nil
	}
	return ContactFromAddress(*a, req.Email), true, nil
}

// SelectAddress returns the address with id, else the default, else the first.
func SelectAddress(addresses []models.Address, id string) *models.Address {
	if id != "" {
		for i := range addresses {
			if addresses[i].ID == id {
				return &addresses[i]
			}
		}
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i]
		}
	}
	if len(addresses) > 0 {
		return &addresses[0]
	}
	return nil
}

func joinAddress(address, city string) string {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)
	if address == "" || city == "" {
		return address
	}
	return address + ", " + city
}
