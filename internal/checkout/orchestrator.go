// Package checkout sequences customer identification, form validation and
// order submission. The lookup-then-confirm flow is an explicit state
// machine: illegal actions (submitting without an open confirmation,
// confirming without a pending lookup) are transition errors, not panics.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/sirupsen/logrus"
)

type Phase string

const (
	PhaseIdle          Phase = "IDLE"
	PhaseLookingUp     Phase = "LOOKING_UP"
	PhaseConfirmingNew Phase = "CONFIRMING_NEW" // lookup missed, waiting for create-new decision
	PhaseConfirmation  Phase = "AWAITING_CONFIRMATION"
	PhaseSubmitting    Phase = "SUBMITTING"
)

type CustomerMode string

const (
	ModeNone     CustomerMode = ""
	ModeExisting CustomerMode = "EXISTING"
	ModeNew      CustomerMode = "NEW"
)

// ErrEmptyCart guards checkout entry and submission against an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// TransitionError reports an action fired in a phase that does not allow it.
type TransitionError struct {
	Phase  Phase
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in phase %s", e.Action, e.Phase)
}

// ValidationError blocks submission locally; it never reaches the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %v", e.Fields)
}

var phonePattern = regexp.MustCompile(`^[0-9]{9,11}$`)

// Form carries the editable checkout fields.
type Form struct {
	CustomerName    string
	CustomerAddress string
	Note            string
	ClientIP        string // forwarded to the payment provider call
}

// LookupResult tells the caller how to proceed after BeginLookup.
type LookupResult struct {
	Mode CustomerMode
	User domain.User // filled for ModeExisting

	// NeedsConfirmation is set when the phone matched nobody; the caller must
	// call ConfirmNewCustomer or AbortLookup.
	NeedsConfirmation bool
}

// Outcome is a successful submission: where to send the shopper next.
type Outcome struct {
	Order       domain.Order
	RedirectURL string // payment provider, full browser redirect
	InvoicePath string // local invoice view
}

type Orchestrator struct {
	cart   *cart.Store
	users  port.UserDirectory
	orders port.OrderService
	logger *logrus.Entry

	mu       sync.Mutex
	phase    Phase
	mode     CustomerMode
	phone    string
	customer domain.User
}

func New(cartStore *cart.Store, users port.UserDirectory, orders port.OrderService, logger *logrus.Entry) (*Orchestrator, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cartStore is nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Orchestrator{
		cart:   cartStore,
		users:  users,
		orders: orders,
		logger: logger,
		phase:  PhaseIdle,
	}, nil
}

func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) Mode() CustomerMode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// Enter guards the checkout page: an empty cart with no just-placed order
// means there is nothing to check out.
func (o *Orchestrator) Enter() error {
	snapshot := o.cart.Snapshot()
	if snapshot.Empty() && snapshot.LastOrderID == 0 {
		return ErrEmptyCart
	}
	return nil
}

// BeginLookup resolves the customer for the typed phone number. An empty
// phone skips the lookup entirely and opens the confirmation in New mode.
func (o *Orchestrator) BeginLookup(ctx context.Context, phone string) (LookupResult, error) {
	phone = strings.TrimSpace(phone)

	o.mu.Lock()
	if o.phase != PhaseIdle {
		defer o.mu.Unlock()
		return LookupResult{}, &TransitionError{Phase: o.phase, Action: "begin lookup"}
	}

	if phone == "" {
		o.mode = ModeNew
		o.phone = ""
		o.customer = domain.User{}
		o.phase = PhaseConfirmation
		o.mu.Unlock()
		return LookupResult{Mode: ModeNew}, nil
	}

	o.phase = PhaseLookingUp
	o.mu.Unlock()

	user, err := o.users.FindByPhone(ctx, phone)

	o.mu.Lock()
	defer o.mu.Unlock()

	switch {
	case err == nil:
		o.mode = ModeExisting
		o.phone = phone
		o.customer = user
		o.phase = PhaseConfirmation
		return LookupResult{Mode: ModeExisting, User: user}, nil

	case errors.Is(err, api.ErrNotFound):
		o.mode = ModeNone
		o.phone = phone
		o.customer = domain.User{}
		o.phase = PhaseConfirmingNew
		return LookupResult{NeedsConfirmation: true}, nil

	default:
		o.reset()
		return LookupResult{}, fmt.Errorf("users.FindByPhone: %w", err)
	}
}

// ConfirmNewCustomer accepts creating a customer for an unknown phone.
func (o *Orchestrator) ConfirmNewCustomer() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != PhaseConfirmingNew {
		return &TransitionError{Phase: o.phase, Action: "confirm new customer"}
	}

	o.mode = ModeNew
	o.customer = domain.User{}
	o.phase = PhaseConfirmation
	return nil
}

// AbortLookup declines creating a customer and returns to idle.
func (o *Orchestrator) AbortLookup() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase == PhaseConfirmingNew || o.phase == PhaseConfirmation {
		o.reset()
	}
}

// Cancel closes the confirmation modal without submitting.
func (o *Orchestrator) Cancel() {
	o.AbortLookup()
}

// Submit validates the form and creates the order. On success the last order
// id is recorded, the cart cleared and the flow reset; on any failure the
// cart is left untouched so the submission is safely retryable.
func (o *Orchestrator) Submit(ctx context.Context, form Form, method domain.PaymentMethod) (Outcome, error) {
	o.mu.Lock()
	if o.phase != PhaseConfirmation {
		defer o.mu.Unlock()
		return Outcome{}, &TransitionError{Phase: o.phase, Action: "submit"}
	}
	mode, phone, customer := o.mode, o.phone, o.customer
	o.phase = PhaseSubmitting
	o.mu.Unlock()

	outcome, err := o.submit(ctx, mode, phone, customer, form, method)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		// keep the confirmation open for a retry, except validation errors of
		// the flow itself
		o.phase = PhaseConfirmation
		return Outcome{}, err
	}
	o.reset()
	return outcome, nil
}

func (o *Orchestrator) submit(ctx context.Context, mode CustomerMode, phone string, customer domain.User, form Form, method domain.PaymentMethod) (Outcome, error) {
	snapshot := o.cart.Snapshot()
	if snapshot.Empty() {
		return Outcome{}, ErrEmptyCart
	}

	name := strings.TrimSpace(form.CustomerName)
	address := strings.TrimSpace(form.CustomerAddress)
	if mode == ModeExisting {
		name = customer.Name
		address = customer.Address
	}

	if err := validate(mode, phone, name, address); err != nil {
		return Outcome{}, err
	}

	req := domain.CreateOrderRequest{
		CustomerName:    name,
		CustomerPhone:   phone, // omitted from JSON when empty
		CustomerAddress: address,
		Note:            form.Note,
		Items:           make([]domain.OrderItemInput, 0, len(snapshot.Lines)),
	}
	for _, line := range snapshot.Lines {
		req.Items = append(req.Items, domain.OrderItemInput{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}

	order, err := o.orders.CreateOrder(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	outcome := Outcome{Order: order}
	switch method {
	case domain.PaymentVnpay:
		paymentURL, err := o.orders.InitiateVnpayPayment(ctx, order.ID, form.ClientIP)
		if err != nil {
			return Outcome{}, fmt.Errorf("orders.InitiateVnpayPayment: %w", err)
		}
		outcome.RedirectURL = paymentURL
	case domain.PaymentCash:
		outcome.InvoicePath = fmt.Sprintf("/invoice/%d", order.ID)
	default:
		return Outcome{}, fmt.Errorf("unknown payment method %q", method)
	}

	o.cart.SetLastOrderID(ctx, order.ID)
	o.cart.ClearCart(ctx)

	o.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"method":   method,
	}).Info("order placed")

	return outcome, nil
}

func validate(mode CustomerMode, phone, name, address string) error {
	fields := make(map[string]string)

	if phone != "" && !phonePattern.MatchString(phone) {
		fields["customerPhone"] = "phone must be 9 to 11 digits"
	}

	// a new customer reachable by phone needs a name and an address
	if mode == ModeNew && phone != "" {
		if name == "" {
			fields["customerName"] = "name is required"
		}
		if address == "" {
			fields["customerAddress"] = "address is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// reset must be called with the mutex held.
func (o *Orchestrator) reset() {
	o.phase = PhaseIdle
	o.mode = ModeNone
	o.phone = ""
	o.customer = domain.User{}
}
