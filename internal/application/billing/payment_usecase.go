package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// PaymentUseCase abonos de una factura y su detalle de cheque.
// Cada alta, edición o baja de abono recalcula la factura en la misma transacción.
type PaymentUseCase struct {
	tx        BillingTxRunner
	repos     Repos
	banks     repository.BankRepository
	recompute *RecomputeService
	now       func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(tx BillingTxRunner, repos Repos, banks repository.BankRepository, recompute *RecomputeService) *PaymentUseCase {
	return &PaymentUseCase{tx: tx, repos: repos, banks: banks, recompute: recompute, now: time.Now}
}

// Add registra un abono. El consecutivo lo asigna el repositorio.
func (uc *PaymentUseCase) Add(ctx context.Context, invoiceID string, in dto.PaymentRequest) (*dto.PaymentMutationResponse, error) {
	payment, err := uc.buildPayment(ctx, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	payment.ID = uuid.New().String()
	payment.InvoiceID = invoiceID
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if payment.Cheque != nil {
		payment.Cheque.PaymentID = payment.ID
		payment.Cheque.UpdatedAt = now
	}

	var inv *entity.Invoice
	err = uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		payment.Days = billing.PaymentDays(inv.Date, payment.PaymentDate)
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}
		if payment.Cheque != nil {
			if err := repos.Payments.SaveCheque(ctx, payment.Cheque); err != nil {
				return err
			}
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	resp := toPaymentResponse(payment)
	return &dto.PaymentMutationResponse{Payment: &resp, Invoice: toInvoiceResponse(inv)}, nil
}

// Update reemplaza fecha, monto, forma de pago y cheque de un abono.
// Pasar de cheque a efectivo borra el detalle del cheque.
func (uc *PaymentUseCase) Update(ctx context.Context, invoiceID, paymentID string, in dto.PaymentRequest) (*dto.PaymentMutationResponse, error) {
	changes, err := uc.buildPayment(ctx, in)
	if err != nil {
		return nil, err
	}

	var (
		inv     *entity.Invoice
		payment *entity.PaymentRecord
	)
	err = uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		if payment, err = findPayment(ctx, repos.Payments, invoiceID, paymentID); err != nil {
			return err
		}
		now := uc.now()
		hadCheque := payment.Cheque != nil
		payment.PaymentDate = changes.PaymentDate
		payment.Amount = changes.Amount
		payment.PaymentType = changes.PaymentType
		payment.Days = billing.PaymentDays(inv.Date, payment.PaymentDate)
		payment.UpdatedAt = now
		if err := repos.Payments.Update(ctx, payment); err != nil {
			return err
		}

		switch {
		case changes.Cheque != nil:
			changes.Cheque.PaymentID = payment.ID
			changes.Cheque.UpdatedAt = now
			// El estado de un cheque existente solo cambia con SetChequeStatus.
			if hadCheque {
				changes.Cheque.Status = payment.Cheque.Status
			}
			if err := repos.Payments.SaveCheque(ctx, changes.Cheque); err != nil {
				return err
			}
			payment.Cheque = changes.Cheque
		case hadCheque:
			if err := repos.Payments.DeleteCheque(ctx, payment.ID); err != nil {
				return err
			}
			payment.Cheque = nil
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	resp := toPaymentResponse(payment)
	return &dto.PaymentMutationResponse{Payment: &resp, Invoice: toInvoiceResponse(inv)}, nil
}

// Delete borra un abono (y su cheque) y devuelve la factura recalculada.
func (uc *PaymentUseCase) Delete(ctx context.Context, invoiceID, paymentID string) (*dto.PaymentMutationResponse, error) {
	var inv *entity.Invoice
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		if _, err := findPayment(ctx, repos.Payments, invoiceID, paymentID); err != nil {
			return err
		}
		if err := repos.Payments.Delete(ctx, paymentID); err != nil {
			return err
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	return &dto.PaymentMutationResponse{Invoice: toInvoiceResponse(inv)}, nil
}

// List devuelve los abonos de una factura por consecutivo.
func (uc *PaymentUseCase) List(ctx context.Context, invoiceID string) ([]dto.PaymentResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

// SetChequeStatus cambia el estado del cheque de un abono.
// Solo un cheque Pending cambia (a Cleared o Bounced); pedir el mismo estado no hace nada.
// El estado no afecta los totales.
func (uc *PaymentUseCase) SetChequeStatus(ctx context.Context, invoiceID, paymentID string, in dto.ChequeStatusRequest) (*dto.PaymentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var payment *entity.PaymentRecord
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		if _, err := lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		var err error
		if payment, err = findPayment(ctx, repos.Payments, invoiceID, paymentID); err != nil {
			return err
		}
		if payment.Cheque == nil {
			return fmt.Errorf("%w: el abono %d no es con cheque", domain.ErrConflict, payment.SequenceNo)
		}
		if payment.Cheque.Status == in.Status {
			return nil
		}
		if payment.Cheque.Status != entity.ChequePending {
			return fmt.Errorf("%w: el cheque %s ya está %s", domain.ErrConflict, payment.Cheque.ChequeNo, payment.Cheque.Status)
		}
		payment.Cheque.Status = in.Status
		payment.Cheque.UpdatedAt = uc.now()
		return repos.Payments.SaveCheque(ctx, payment.Cheque)
	})
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// buildPayment valida la entrada. El cheque es obligatorio solo para pagos con cheque.
func (uc *PaymentUseCase) buildPayment(ctx context.Context, in dto.PaymentRequest) (*entity.PaymentRecord, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := billing.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	date, err := parseDate(in.PaymentDate)
	if err != nil {
		return nil, err
	}
	p := &entity.PaymentRecord{
		PaymentDate: date,
		Amount:      in.Amount,
		PaymentType: in.PaymentType,
	}

	switch in.PaymentType {
	case entity.PaymentTypeCheque:
		if in.Cheque == nil {
			return nil, fmt.Errorf("%w: un pago con cheque requiere los datos del cheque", domain.ErrInvalidInput)
		}
		bank, err := uc.banks.GetByID(ctx, in.Cheque.BankID)
		if err != nil {
			return nil, err
		}
		if bank == nil {
			return nil, fmt.Errorf("%w: banco %s no existe", domain.ErrInvalidInput, in.Cheque.BankID)
		}
		chequeDate, err := parseDate(in.Cheque.ChequeDate)
		if err != nil {
			return nil, err
		}
		status := in.Cheque.Status
		if status == "" {
			status = entity.ChequePending
		}
		p.Cheque = &entity.ChequePayment{
			BankID:     bank.ID,
			ChequeNo:   in.Cheque.ChequeNo,
			ChequeDate: chequeDate,
			Status:     status,
		}
	default:
		if in.Cheque != nil {
			return nil, fmt.Errorf("%w: un pago en efectivo no lleva cheque", domain.ErrInvalidInput)
		}
	}
	return p, nil
}

func findPayment(ctx context.Context, repo repository.PaymentRepository, invoiceID, paymentID string) (*entity.PaymentRecord, error) {
	p, err := repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.InvoiceID != invoiceID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
