package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/model"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// ListCustomerApplicationsUseCase lists every application of one customer.
type ListCustomerApplicationsUseCase struct {
	appRepo port.PurchaseApplicationRepository
}

func NewListCustomerApplicationsUseCase(appRepo port.PurchaseApplicationRepository) *ListCustomerApplicationsUseCase {
	return &ListCustomerApplicationsUseCase{appRepo: appRepo}
}

// Execute returns the customer's applications, newest first. A customer with
// no applications yields an empty list.
func (uc *ListCustomerApplicationsUseCase) Execute(
	ctx context.Context,
	req dto.ListCustomerApplicationsRequest,
) (dto.ListCustomerApplicationsResponse, error) {
	if strings.TrimSpace(req.PersonalID) == "" {
		return dto.ListCustomerApplicationsResponse{}, fmt.Errorf("%w: personal ID is required", ErrInvalidRequest)
	}

	apps, err := uc.appRepo.FindByPersonalID(ctx, req.PersonalID)
	if err != nil {
		return dto.ListCustomerApplicationsResponse{}, fmt.Errorf("find applications: %w", err)
	}

	slices.SortStableFunc(apps, func(a, b model.PurchaseApplication) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})

	out := make([]dto.PurchaseApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return dto.ListCustomerApplicationsResponse{Applications: out}, nil
}
