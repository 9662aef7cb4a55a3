package topology

import (
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
	"github.com/scottpeterman/termtelent-sub002/internal/name"
)

// Assembler folds crawled devices into the canonical graph and repairs
// bidirectional consistency
type Assembler struct {
	log logger.Logger
}

// NewAssembler returns a new instance of Assembler
func NewAssembler() *Assembler {
	return &Assembler{
		log: logger.New(),
	}
}

// Assemble produces the final graph: fold every device's adjacency list,
// merge residual duplicate identities, enrich peer platforms from node
// details, then repair missing reverse edges
func (a *Assembler) Assemble(devices map[string]*Device) Graph {
	graph := a.fold(devices)

	a.enrichPeers(graph)
	a.repair(graph)

	return graph
}

// fold transforms devices into graph nodes, re-normalizing identities
// defensively and merging on collision: first non-empty scalar wins and
// peer connection lists are set-unioned
func (a *Assembler) fold(devices map[string]*Device) Graph {
	graph := Graph{}

	for hostname, device := range devices {
		identity := name.Hostname(hostname)

		if identity == "" {
			continue
		}

		node, ok := graph[identity]

		if !ok {
			node = &Node{
				NodeDetails: NodeDetails{IP: device.IP, Platform: device.Platform},
				Peers:       map[string]*Peer{},
			}
			graph[identity] = node
		} else {
			a.log.Debug().Str("identity", identity).Msg("merging duplicate device entry")

			if node.NodeDetails.IP == "" {
				node.NodeDetails.IP = device.IP
			}

			if node.NodeDetails.Platform == "" {
				node.NodeDetails.Platform = device.Platform
			}
		}

		for peerID, connections := range device.Connections {
			peerIdentity := name.Hostname(peerID)

			if peerIdentity == "" || peerIdentity == identity {
				// self loops never enter the graph
				continue
			}

			peer, ok := node.Peers[peerIdentity]

			if !ok {
				peer = &Peer{Connections: [][]string{}}
				node.Peers[peerIdentity] = peer
			}

			for _, conn := range connections {
				if peer.IP == "" {
					peer.IP = conn.NeighborIP
				}

				if peer.Platform == "" {
					peer.Platform = conn.NeighborPlatform
				}

				peer.addConnection(conn.LocalPort, conn.RemotePort)
			}
		}
	}

	return graph
}

// enrichPeers overrides peer platform strings with the authoritative
// node details when the peer was itself crawled. The generic ios/eos
// values carry no display information and are blanked.
func (a *Assembler) enrichPeers(graph Graph) {
	for _, node := range graph {
		for peerID, peer := range node.Peers {
			if peerNode, ok := graph[peerID]; ok {
				peer.Platform = peerNode.NodeDetails.Platform
			}

			switch peer.Platform {
			case "ios", "eos":
				peer.Platform = ""
			}
		}
	}
}

// repair makes every observed edge bidirectional: synthesize stub nodes
// for peers never crawled, add missing reverse peer entries, and append
// missing reversed connection pairs
func (a *Assembler) repair(graph Graph) {
	createdDevices := 0
	addedConnections := 0

	// collect fixes first so iteration order cannot affect the result
	type reverseEdge struct {
		from    string
		to      string
		details NodeDetails
		pairs   [][]string
	}

	pending := []reverseEdge{}

	for identity, node := range graph {
		for peerID, peer := range node.Peers {
			reversed := [][]string{}

			for _, conn := range peer.Connections {
				if len(conn) >= 2 {
					reversed = append(reversed, []string{conn[1], conn[0]})
				}
			}

			pending = append(pending, reverseEdge{
				from:    peerID,
				to:      identity,
				details: node.NodeDetails,
				pairs:   reversed,
			})
		}
	}

	for _, edge := range pending {
		node, ok := graph[edge.from]

		if !ok {
			// peer observed only as a destination: synthesize a stub
			source := graph[edge.to]
			stubDetails := NodeDetails{}

			if peer, ok := source.Peers[edge.from]; ok {
				stubDetails = NodeDetails{IP: peer.IP, Platform: peer.Platform}
			}

			node = &Node{
				NodeDetails: stubDetails,
				Peers:       map[string]*Peer{},
			}
			graph[edge.from] = node
			createdDevices++
		}

		peer, ok := node.Peers[edge.to]

		if !ok {
			peer = &Peer{
				IP:          edge.details.IP,
				Platform:    edge.details.Platform,
				Connections: [][]string{},
			}
			node.Peers[edge.to] = peer
		}

		for _, pair := range edge.pairs {
			if !peer.hasConnection(pair[0], pair[1]) {
				peer.addConnection(pair[0], pair[1])
				addedConnections++
			}
		}
	}

	a.log.Info().
		Int("createdDevices", createdDevices).
		Int("addedConnections", addedConnections).
		Int("totalDevices", len(graph)).
		Msg("bidirectional repair complete")
}

// Validate reports edges whose exact reverse pair is still missing. The
// report is diagnostic only; a non-empty result does not fail a run.
func (a *Assembler) Validate(graph Graph) []Asymmetry {
	issues := []Asymmetry{}

	for identity, node := range graph {
		for peerID, peer := range node.Peers {
			peerNode, ok := graph[peerID]

			if !ok {
				for _, conn := range peer.Connections {
					if len(conn) >= 2 {
						issues = append(issues, Asymmetry{identity, peerID, conn[0], conn[1]})
					}
				}
				continue
			}

			reverse, ok := peerNode.Peers[identity]

			for _, conn := range peer.Connections {
				if len(conn) < 2 {
					continue
				}

				if !ok || !reverse.hasConnection(conn[1], conn[0]) {
					issues = append(issues, Asymmetry{identity, peerID, conn[0], conn[1]})
				}
			}
		}
	}

	return issues
}
