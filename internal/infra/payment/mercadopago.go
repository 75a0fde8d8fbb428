package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/refund"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

const statusApproved = "approved"

// MercadoPago implements the booking payment gateway.
type MercadoPago struct {
	payments    payment.Client
	refunds     refund.Client
	preferences preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		payments:    payment.NewClient(cfg),
		refunds:     refund.NewClient(cfg),
		preferences: preference.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) Charge(
	ctx context.Context,
	req domain.ChargeRequest,
) (domain.PaymentResult, error) {

	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}

	request := payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   req.Method,
		Token:             req.Token,
		Installments:      installments,
		ExternalReference: req.BookingNumber,
	}
	if req.PayerEmail != "" {
		request.Payer = &payment.PayerRequest{Email: req.PayerEmail}
	}

	res, err := m.payments.Create(ctx, request)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("create payment: %w", err)
	}

	return domain.PaymentResult{
		Success:       res.Status == statusApproved,
		TransactionID: strconv.Itoa(res.ID),
		Status:        res.Status,
	}, nil
}

func (m *MercadoPago) Refund(
	ctx context.Context,
	transactionID string,
	amount float64,
) (domain.PaymentResult, error) {

	paymentID, err := parsePaymentID(transactionID)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	res, err := m.refunds.CreatePartialRefund(ctx, paymentID, amount)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("refund payment %d: %w", paymentID, err)
	}

	return domain.PaymentResult{
		Success:       res.Status == statusApproved,
		TransactionID: strconv.Itoa(res.ID),
		Status:        res.Status,
	}, nil
}

func (m *MercadoPago) CreatePaymentLink(
	ctx context.Context,
	bookingNumber string,
	title string,
	amount float64,
) (domain.PaymentResult, error) {

	res, err := m.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			Title:     title,
			Quantity:  1,
			UnitPrice: amount,
		}},
		ExternalReference: bookingNumber,
	})
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("create preference: %w", err)
	}

	return domain.PaymentResult{
		Success:       res.InitPoint != "",
		TransactionID: res.ID,
		URL:           res.InitPoint,
	}, nil
}

// parsePaymentID accepts the numeric ids MercadoPago assigns.
func parsePaymentID(transactionID string) (int, error) {
	id, err := strconv.Atoi(transactionID)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid mercadopago payment id %q", transactionID)
	}
	return id, nil
}

var _ domain.PaymentGateway = (*MercadoPago)(nil)
