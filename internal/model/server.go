package model

import (
	"context"
	"net"
)

// SecurityLayer abstracts how the server's listener is opened, TLS or plain.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a transport server with a managed lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
