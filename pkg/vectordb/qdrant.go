package vectordb

import (
	"context"
	"fmt"
	"time"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Connect dials the Qdrant gRPC endpoint and verifies it is reachable.
func Connect(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := qdrantclient.NewQdrantClient(conn).HealthCheck(ctx, &qdrantclient.HealthCheckRequest{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping qdrant: %w", err)
	}

	return conn, nil
}
