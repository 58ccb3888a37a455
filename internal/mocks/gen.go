package mocks

//go:generate sh -c "go run go.uber.org/mock/mockgen -package mockhandshake -destination handshake/protocol.go github.com/edgemesh/quic/internal/handshake Protocol"
