package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/port"
	"github.com/bibbank/purchase-approval/pkg/tlsutil"
)

func stubHandler() *PurchaseHandler {
	created := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	app := dto.PurchaseApplicationResponse{
		ID:                   "app-1",
		PersonalID:           "12345678912",
		RequestedAmount:      decimal.NewFromInt(1000),
		Currency:             "EUR",
		PaymentPeriodMonths:  12,
		Status:               "APPROVED",
		ApprovedAmount:       decimal.NewFromInt(1100),
		ApprovedPeriodMonths: 12,
		Version:              2,
		CreatedAt:            created,
		UpdatedAt:            created,
	}
	apply := &mockApplier{executeFunc: func(_ context.Context, req dto.ApplyForPurchaseRequest) (dto.PurchaseDecisionResponse, error) {
		return dto.PurchaseDecisionResponse{
			ApplicationID:        "app-1",
			Status:               "APPROVED",
			Approved:             true,
			ApprovedAmount:       req.RequestedAmount,
			ApprovedPeriodMonths: req.PaymentPeriodMonths,
		}, nil
	}}
	get := &mockGetter{executeFunc: func(_ context.Context, req dto.GetApplicationRequest) (dto.PurchaseApplicationResponse, error) {
		if req.ApplicationID != app.ID {
			return dto.PurchaseApplicationResponse{}, port.ErrApplicationNotFound
		}
		return app, nil
	}}
	list := &mockLister{executeFunc: func(context.Context, dto.ListCustomerApplicationsRequest) (dto.ListCustomerApplicationsResponse, error) {
		return dto.ListCustomerApplicationsResponse{Applications: []dto.PurchaseApplicationResponse{app}}, nil
	}}
	return NewPurchaseHandler(apply, get, list, discardLogger())
}

func TestPurchaseApprovalServiceClient(t *testing.T) {
	client := NewPurchaseApprovalServiceClient(startBufconnServer(t, stubHandler()))
	ctx := context.Background()

	t.Run("apply", func(t *testing.T) {
		out, err := client.ApplyForPurchase(ctx, &ApplyForPurchaseRequest{
			PersonalID: "12345678912", RequestedAmount: "1000.50", PaymentPeriodMonths: 12,
		})
		require.NoError(t, err)
		assert.True(t, out.Approved)
		assert.Equal(t, "1000.5", out.ApprovedAmount)
	})

	t.Run("get", func(t *testing.T) {
		out, err := client.GetApplication(ctx, &GetApplicationRequest{ApplicationID: "app-1"})
		require.NoError(t, err)
		assert.Equal(t, "12345678912", out.PersonalID)
		assert.Equal(t, "1100", out.ApprovedAmount)
		assert.Equal(t, "2026-05-04T09:00:00Z", out.CreatedAt)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := client.GetApplication(ctx, &GetApplicationRequest{ApplicationID: "missing"})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("list", func(t *testing.T) {
		out, err := client.ListCustomerApplications(ctx, &ListCustomerApplicationsRequest{PersonalID: "12345678912"})
		require.NoError(t, err)
		require.Len(t, out.Applications, 1)
		assert.Equal(t, "app-1", out.Applications[0].ID)
	})
}

func TestServer_MutualTLS(t *testing.T) {
	bundle, err := tlsutil.GenerateDevCertificates([]string{"localhost", "127.0.0.1"}, t.TempDir())
	require.NoError(t, err)

	serverCreds, err := tlsutil.ServerCredentials(bundle.ServerCertFile, bundle.ServerKeyFile, bundle.CAFile)
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(stubHandler(), ServerConfig{ServiceName: "purchase-approval", Creds: serverCreds}, discardLogger())
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	dial := func(t *testing.T, certFile, keyFile string) PurchaseApprovalServiceClient {
		t.Helper()
		creds, err := tlsutil.ClientCredentials(bundle.CAFile, certFile, keyFile, "localhost")
		require.NoError(t, err)
		conn, err := grpclib.NewClient(lis.Addr().String(), grpclib.WithTransportCredentials(creds))
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return NewPurchaseApprovalServiceClient(conn)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("client certificate is accepted", func(t *testing.T) {
		client := dial(t, bundle.ClientCertFile, bundle.ClientKeyFile)
		out, err := client.ApplyForPurchase(ctx, &ApplyForPurchaseRequest{
			PersonalID: "12345678912", RequestedAmount: "500", PaymentPeriodMonths: 12,
		})
		require.NoError(t, err)
		assert.True(t, out.Approved)
	})

	t.Run("missing client certificate is rejected", func(t *testing.T) {
		client := dial(t, "", "")
		_, err := client.ApplyForPurchase(ctx, &ApplyForPurchaseRequest{
			PersonalID: "12345678912", RequestedAmount: "500", PaymentPeriodMonths: 12,
		})
		require.Error(t, err)
		assert.NotEqual(t, codes.OK, status.Code(err))
	})
}
