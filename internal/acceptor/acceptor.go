// Package acceptor runs the TCP accept loop that feeds every incoming
// connection to the worker pool for request driving.
package acceptor

import (
	"net"

	"github.com/ocx/edgeproxy/internal/driver"
	"github.com/ocx/edgeproxy/internal/router"
	"github.com/ocx/edgeproxy/internal/workerpool"
)

// Run accepts connections on ln forever, handing each one to pool for
// request driving against routes. It returns only when Accept itself
// fails (the listener was closed).
func Run(ln net.Listener, pool *workerpool.Pool, routes *router.Table) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		pool.Execute(func() {
			driver.Handle(conn, routes)
		})
	}
}
