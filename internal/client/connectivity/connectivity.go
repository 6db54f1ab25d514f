// Package connectivity answers "is any network link usable right now".
//
// A Checker is queried synchronously by the request pipeline before each
// call. Watcher additionally polls a Checker and logs transitions so the
// state is visible in the logs even when no calls are made.
package connectivity

import (
	"context"
	"net"
)

type Checker interface {
	Reachable(ctx context.Context) bool
}

// CheckerFunc adapts a plain func to Checker.
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Reachable(ctx context.Context) bool { return f(ctx) }

// Static always reports the given state.
func Static(reachable bool) Checker {
	return CheckerFunc(func(context.Context) bool { return reachable })
}

// InterfaceChecker reports reachable when at least one network interface is
// up, is not loopback and has a unicast address. Cellular, Wi-Fi and wired
// links all surface as such interfaces.
type InterfaceChecker struct {
	// interfaces is swapped in tests.
	interfaces func() ([]Interface, error)
}

// Interface is the part of a network interface the checker looks at.
type Interface struct {
	Name     string
	Up       bool
	Loopback bool
	Addrs    []net.Addr
}

func NewInterfaceChecker() *InterfaceChecker {
	return &InterfaceChecker{interfaces: systemInterfaces}
}

func (c *InterfaceChecker) Reachable(_ context.Context) bool {
	ifaces, err := c.interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if !iface.Up || iface.Loopback {
			continue
		}
		for _, a := range iface.Addrs {
			if usable(a) {
				return true
			}
		}
	}
	return false
}

func usable(a net.Addr) bool {
	var ip net.IP
	switch v := a.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return false
	}
	return ip != nil && !ip.IsLoopback() && !ip.IsUnspecified() && !ip.IsLinkLocalUnicast()
}

func systemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{
			Name:     iface.Name,
			Up:       iface.Flags&net.FlagUp != 0,
			Loopback: iface.Flags&net.FlagLoopback != 0,
			Addrs:    addrs,
		})
	}
	return out, nil
}
