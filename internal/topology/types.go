package topology

import (
	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
)

// Connection is one observed interface pairing between a device and a peer
type Connection struct {
	LocalPort        string
	RemotePort       string
	Protocol         neighbor.Protocol
	NeighborIP       string
	NeighborPlatform string
}

// Device is a completed device record plus its outgoing adjacency as
// observed during the crawl. All scalar fields are fixed at creation;
// when one identity is reached at several addresses, the first address
// wins.
type Device struct {
	Hostname    string
	IP          string
	Platform    string
	Serial      string
	Connections map[string][]Connection
}

// NewDevice returns a new instance of Device
func NewDevice(hostname, ip, platform, serial string) *Device {
	return &Device{
		Hostname:    hostname,
		IP:          ip,
		Platform:    platform,
		Serial:      serial,
		Connections: map[string][]Connection{},
	}
}

// AddConnection records a connection to a peer, dropping exact duplicate
// local/remote pairs
func (d *Device) AddConnection(peerID string, conn Connection) bool {
	for _, existing := range d.Connections[peerID] {
		if existing.LocalPort == conn.LocalPort && existing.RemotePort == conn.RemotePort {
			return false
		}
	}

	d.Connections[peerID] = append(d.Connections[peerID], conn)

	return true
}

// NodeDetails carries the per-device scalar fields of the export contract
type NodeDetails struct {
	IP       string `json:"ip"`
	Platform string `json:"platform"`
}

// Peer is one adjacency entry of the export contract
type Peer struct {
	IP          string     `json:"ip"`
	Platform    string     `json:"platform"`
	Connections [][]string `json:"connections"`
}

// Node is one device entry of the export contract
type Node struct {
	NodeDetails NodeDetails      `json:"node_details"`
	Peers       map[string]*Peer `json:"peers"`
}

// Graph is the canonical topology keyed by normalized device identity.
// The field names and nesting of its JSON form are the hand-off contract
// for exporters and must not change.
type Graph map[string]*Node

// Asymmetry is one edge whose exact reverse pair could not be found after
// repair. Diagnostic only.
type Asymmetry struct {
	From       string
	To         string
	LocalPort  string
	RemotePort string
}

func (p *Peer) hasConnection(local, remote string) bool {
	for _, conn := range p.Connections {
		if len(conn) >= 2 && conn[0] == local && conn[1] == remote {
			return true
		}
	}
	return false
}

func (p *Peer) addConnection(local, remote string) {
	if !p.hasConnection(local, remote) {
		p.Connections = append(p.Connections, []string{local, remote})
	}
}
