// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/vechain/stakerewards/log"
)

var logger = log.WithContext("pkg", "httpserver")

// serve runs srv on listener and returns a func that closes srv and waits for it.
func serve(srv *http.Server, listener net.Listener) func() {
	var goes errgroup.Group
	goes.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Warn("server stopped", "addr", listener.Addr(), "err", err)
			return err
		}
		return nil
	})
	return func() {
		srv.Close()
		goes.Wait()
	}
}
