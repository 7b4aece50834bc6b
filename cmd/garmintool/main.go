// Command garmintool is a minimal demonstration of the session API: it
// opens a serial port, negotiates with the attached device, and prints
// product info plus (optionally) the waypoint list.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/basincreek/gogarmin"
	"github.com/basincreek/gogarmin/internal/catalog"
	"github.com/basincreek/gogarmin/internal/config"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/phys"
	"github.com/basincreek/gogarmin/internal/version"
)

func main() {
	port := flag.String("port", "", "serial device path, e.g. /dev/ttyUSB0")
	catalogPath := flag.String("catalog", "", "path to the device catalog sqlite file (empty uses an in-memory default)")
	dumpWaypoints := flag.Bool("waypoints", false, "download and print waypoints after negotiating")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("garmintool v%s (git SHA: %s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		os.Exit(0)
	}

	if *port == "" {
		fmt.Fprintln(os.Stderr, "garmintool: -port is required")
		os.Exit(2)
	}

	transport, err := phys.NewSerialTransport(*port, phys.DefaultSerialPortMode())
	if err != nil {
		log.Fatalf("garmintool: open serial port: %v", err)
	}
	defer transport.Close()

	l := link.NewSerialLink(transport)
	defer l.Close()

	catPath := *catalogPath
	if catPath == "" {
		catPath = ":memory:"
	}
	cat, err := catalog.Open(catPath)
	if err != nil {
		log.Fatalf("garmintool: open catalog: %v", err)
	}
	defer cat.Close()

	sess, err := garmin.Open(l, cat, config.SessionOptions{})
	if err != nil {
		log.Fatalf("garmintool: negotiate: %v", err)
	}
	defer sess.Close()

	log.Printf("garmintool v%s (git SHA: %s) negotiated with product_id=%d", version.Version, version.GitSHA, sess.ProductInfo().ProductID)

	printJSON(struct {
		Product any `json:"product"`
		Set     any `json:"protocol_set"`
	}{
		Product: sess.ProductInfo(),
		Set:     sess.ProtocolSet(),
	})

	if *dumpWaypoints {
		waypoints, err := sess.GetWaypoints()
		if err != nil {
			log.Fatalf("garmintool: get waypoints: %v", err)
		}
		printJSON(waypoints)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("garmintool: encode output: %v", err)
	}
}
