// Command approvalctl calls the purchase approval gRPC API.
//
//	approvalctl [flags] apply <personal-id> <amount> <months>
//	approvalctl [flags] get <application-id>
//	approvalctl [flags] list <personal-id>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	grpcPresentation "github.com/bibbank/purchase-approval/internal/presentation/grpc"
	"github.com/bibbank/purchase-approval/pkg/tlsutil"
)

var errUsage = errors.New("usage: approvalctl [flags] apply <personal-id> <amount> <months> | get <application-id> | list <personal-id>")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("approvalctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "localhost:9088", "gRPC address of approvald")
	useTLS := fs.Bool("tls", false, "use TLS with the system roots (implied by -ca)")
	caFile := fs.String("ca", "", "CA certificate to trust")
	certFile := fs.String("cert", "", "client certificate for mutual TLS")
	keyFile := fs.String("key", "", "client key for mutual TLS")
	serverName := fs.String("server-name", "", "override the TLS server name")
	timeout := fs.Duration("timeout", 10*time.Second, "call timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if *useTLS || *caFile != "" || *certFile != "" {
		c, err := tlsutil.ClientCredentials(*caFile, *certFile, *keyFile, *serverName)
		if err != nil {
			return err
		}
		creds = c
	}

	conn, err := grpclib.NewClient(*addr, grpclib.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("connect %s: %w", *addr, err)
	}
	defer func() { _ = conn.Close() }()
	client := grpcPresentation.NewPurchaseApprovalServiceClient(conn)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var resp any
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; {
	case cmd == "apply" && len(rest) == 3:
		months, convErr := strconv.ParseInt(rest[2], 10, 32)
		if convErr != nil {
			return fmt.Errorf("months: %w", convErr)
		}
		resp, err = client.ApplyForPurchase(ctx, &grpcPresentation.ApplyForPurchaseRequest{
			PersonalID:          rest[0],
			RequestedAmount:     rest[1],
			PaymentPeriodMonths: int32(months),
		})
	case cmd == "get" && len(rest) == 1:
		resp, err = client.GetApplication(ctx, &grpcPresentation.GetApplicationRequest{ApplicationID: rest[0]})
	case cmd == "list" && len(rest) == 1:
		resp, err = client.ListCustomerApplications(ctx, &grpcPresentation.ListCustomerApplicationsRequest{PersonalID: rest[0]})
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
