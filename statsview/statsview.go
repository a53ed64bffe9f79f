// Package statsview runs a local HTTP server offering runtime statistics of
// the emulator, provided by "github.com/go-echarts/statsview".
//
// After launch, graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// And standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress the server listens on.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"

// URL returns where the statistics for a server at addr are viewable.
func URL(addr string) string {
	return fmt.Sprintf("http://%s%s", addr, url)
}

// Launch a new goroutine running the statsview server at addr.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s\n", URL(addr))
}
