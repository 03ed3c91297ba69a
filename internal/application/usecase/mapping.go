package usecase

import (
	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/model"
)

func toApplicationResponse(app model.PurchaseApplication) dto.PurchaseApplicationResponse {
	return dto.PurchaseApplicationResponse{
		ID:                   app.ID(),
		PersonalID:           app.PersonalID(),
		RequestedAmount:      app.RequestedAmount().Amount(),
		Currency:             app.RequestedAmount().Currency().Code(),
		PaymentPeriodMonths:  app.PeriodMonths(),
		Status:               app.Status().String(),
		ApprovedAmount:       app.ApprovedAmount().Amount(),
		ApprovedPeriodMonths: app.ApprovedPeriod(),
		Version:              app.Version(),
		CreatedAt:            app.CreatedAt(),
		UpdatedAt:            app.UpdatedAt(),
	}
}
