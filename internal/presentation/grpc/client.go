package grpc

// client.go is the client half of purchase.approval.v1.PurchaseApprovalService,
// written in place of generated code. Calls are forced onto the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
)

// PurchaseApprovalServiceClient is the client API for PurchaseApprovalService.
type PurchaseApprovalServiceClient interface {
	ApplyForPurchase(ctx context.Context, in *ApplyForPurchaseRequest, opts ...grpclib.CallOption) (*PurchaseDecision, error)
	GetApplication(ctx context.Context, in *GetApplicationRequest, opts ...grpclib.CallOption) (*PurchaseApplication, error)
	ListCustomerApplications(ctx context.Context, in *ListCustomerApplicationsRequest, opts ...grpclib.CallOption) (*ListCustomerApplicationsResponse, error)
}

type purchaseApprovalServiceClient struct {
	cc grpclib.ClientConnInterface
}

func NewPurchaseApprovalServiceClient(cc grpclib.ClientConnInterface) PurchaseApprovalServiceClient {
	return &purchaseApprovalServiceClient{cc: cc}
}

func (c *purchaseApprovalServiceClient) ApplyForPurchase(ctx context.Context, in *ApplyForPurchaseRequest, opts ...grpclib.CallOption) (*PurchaseDecision, error) {
	out := new(PurchaseDecision)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ApplyForPurchase", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *purchaseApprovalServiceClient) GetApplication(ctx context.Context, in *GetApplicationRequest, opts ...grpclib.CallOption) (*PurchaseApplication, error) {
	out := new(PurchaseApplication)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetApplication", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *purchaseApprovalServiceClient) ListCustomerApplications(ctx context.Context, in *ListCustomerApplicationsRequest, opts ...grpclib.CallOption) (*ListCustomerApplicationsResponse, error) {
	out := new(ListCustomerApplicationsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ListCustomerApplications", in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpclib.CallOption) []grpclib.CallOption {
	return append([]grpclib.CallOption{grpclib.ForceCodecCallOption{Codec: jsonCodec{}}}, opts...)
}
