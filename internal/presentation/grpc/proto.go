package grpc

// proto.go defines the gRPC server interface for purchase.approval.v1.PurchaseApprovalService
// in place of generated code.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "purchase.approval.v1.PurchaseApprovalService"

// PurchaseApprovalServiceServer is the server API for PurchaseApprovalService.
type PurchaseApprovalServiceServer interface {
	ApplyForPurchase(context.Context, *ApplyForPurchaseRequest) (*PurchaseDecision, error)
	GetApplication(context.Context, *GetApplicationRequest) (*PurchaseApplication, error)
	ListCustomerApplications(context.Context, *ListCustomerApplicationsRequest) (*ListCustomerApplicationsResponse, error)
	mustEmbedUnimplementedPurchaseApprovalServiceServer()
}

// UnimplementedPurchaseApprovalServiceServer provides forward-compatible default implementations.
type UnimplementedPurchaseApprovalServiceServer struct{}

func (UnimplementedPurchaseApprovalServiceServer) ApplyForPurchase(context.Context, *ApplyForPurchaseRequest) (*PurchaseDecision, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyForPurchase not implemented")
}
func (UnimplementedPurchaseApprovalServiceServer) GetApplication(context.Context, *GetApplicationRequest) (*PurchaseApplication, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedPurchaseApprovalServiceServer) ListCustomerApplications(context.Context, *ListCustomerApplicationsRequest) (*ListCustomerApplicationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCustomerApplications not implemented")
}
func (UnimplementedPurchaseApprovalServiceServer) mustEmbedUnimplementedPurchaseApprovalServiceServer() {
}

// RegisterPurchaseApprovalServiceServer registers the service with the gRPC server.
func RegisterPurchaseApprovalServiceServer(s grpclib.ServiceRegistrar, srv PurchaseApprovalServiceServer) {
	s.RegisterService(&_PurchaseApprovalService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _PurchaseApprovalService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PurchaseApprovalServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ApplyForPurchase", Handler: _PurchaseApprovalService_ApplyForPurchase_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "GetApplication", Handler: _PurchaseApprovalService_GetApplication_Handler},                     //nolint:revive // gRPC handler registration
		{MethodName: "ListCustomerApplications", Handler: _PurchaseApprovalService_ListCustomerApplications_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "purchase/approval/v1/approval.proto",
}

//nolint:revive,errcheck // gRPC handler registration
func _PurchaseApprovalService_ApplyForPurchase_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(ApplyForPurchaseRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PurchaseApprovalServiceServer).ApplyForPurchase(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/ApplyForPurchase",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PurchaseApprovalServiceServer).ApplyForPurchase(ctx, req.(*ApplyForPurchaseRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PurchaseApprovalService_GetApplication_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetApplicationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PurchaseApprovalServiceServer).GetApplication(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetApplication",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PurchaseApprovalServiceServer).GetApplication(ctx, req.(*GetApplicationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PurchaseApprovalService_ListCustomerApplications_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(ListCustomerApplicationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PurchaseApprovalServiceServer).ListCustomerApplications(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/ListCustomerApplications",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PurchaseApprovalServiceServer).ListCustomerApplications(ctx, req.(*ListCustomerApplicationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
