package billing

import (
	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		Date:             inv.Date.Format(dto.DateLayout),
		DueDate:          inv.DueDate().Format(dto.DateLayout),
		CustomerID:       inv.CustomerID,
		AgentID:          inv.AgentID,
		PlateNo:          inv.PlateNo,
		DeliveryStatus:   inv.DeliveryStatus,
		Terms:            inv.Terms,
		Remarks:          inv.Remarks,
		Discount:         inv.Discount.StringFixed(2),
		GrandTotal:       inv.GrandTotal.StringFixed(2),
		PartialPayment:   inv.PartialPayment.StringFixed(2),
		RemainingBalance: inv.RemainingBalance.StringFixed(2),
		PaymentStatus:    string(inv.PaymentStatus),
		IsDeleted:        inv.IsDeleted,
	}
}

func toLineRecordResponse(r *entity.LineRecord) dto.LineRecordResponse {
	return dto.LineRecordResponse{
		ID:           r.ID,
		InvoiceID:    r.InvoiceID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity.String(),
		PricePerUnit: r.PricePerUnit.StringFixed(2),
		Rate:         r.Rate.String(),
		TotalPrice:   r.TotalPrice.StringFixed(2),
	}
}

func toPaymentResponse(p *entity.PaymentRecord) dto.PaymentResponse {
	out := dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		SequenceNo:  p.SequenceNo,
		PaymentDate: p.PaymentDate.Format(dto.DateLayout),
		Amount:      p.Amount.StringFixed(2),
		PaymentType: p.PaymentType,
		Days:        p.Days,
	}
	if p.Cheque != nil {
		out.Cheque = &dto.ChequeResponse{
			BankID:     p.Cheque.BankID,
			ChequeNo:   p.Cheque.ChequeNo,
			ChequeDate: p.Cheque.ChequeDate.Format(dto.DateLayout),
			Status:     p.Cheque.Status,
		}
	}
	return out
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		PhoneNo:       c.PhoneNo,
		Address:       c.Address,
		Area:          c.Area,
	}
}
