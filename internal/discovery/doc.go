// Package discovery finds airmap detail servers on the local network.
//
// Servers started with `airmap serve` announce themselves over multicast DNS
// as "_airmap._tcp" services; clients browse for that service type and point
// their detail.Client at the first answer.
//
// # Usage Example
//
//	// Server side
//	ad, err := discovery.Advertise("airmap on studio", 8080, []string{"version=v0.3.0"})
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
//	// Client side
//	srv, err := discovery.NewScanner().Find(ctx, "")
//	if err != nil {
//	    return err
//	}
//	client := detail.NewClient(srv.BaseURL())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
