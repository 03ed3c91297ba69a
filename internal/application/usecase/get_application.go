package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// GetApplicationUseCase retrieves a single purchase application.
type GetApplicationUseCase struct {
	appRepo port.PurchaseApplicationRepository
}

func NewGetApplicationUseCase(appRepo port.PurchaseApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{appRepo: appRepo}
}

// Execute returns the application or an error wrapping port.ErrApplicationNotFound.
func (uc *GetApplicationUseCase) Execute(
	ctx context.Context,
	req dto.GetApplicationRequest,
) (dto.PurchaseApplicationResponse, error) {
	if req.ApplicationID == "" {
		return dto.PurchaseApplicationResponse{}, fmt.Errorf("%w: application ID is required", ErrInvalidRequest)
	}
	app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.PurchaseApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	return toApplicationResponse(app), nil
}
