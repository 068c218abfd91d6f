// Package graph builds a read-only projection of the tracked population:
// nodes are catalog objects, edges are known conjunctions plus synthetic
// same-zone cluster edges. It derives everything from the conjunction store
// and the current catalog snapshot and holds no state of its own.
package graph

import (
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

// Edge kinds.
const (
	EdgeConjunction = "conjunction"
	EdgeZoneCluster = "zone_cluster"
)

// ClusterEdgeWeight is the sentinel weight of synthetic same-zone edges,
// distinguishing them from probability-weighted conjunction edges.
const ClusterEdgeWeight = -1.0

// Node is one tracked object in the projection.
type Node struct {
	CatalogNumber int    `json:"catalogNumber"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Zone          string `json:"zone"`
}

// Edge connects two nodes by catalog number.
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

// View is the complete projection.
type View struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build assembles the projection from the current objects and a set of
// known conjunctions. Conjunction edges carry the stored probability as
// weight; within each three-level zone, objects are chained together with
// sentinel-weighted cluster edges so the zone reads as one component even
// without conjunctions.
func Build(objects []catalog.TrackedObject, conjunctions []*store.Conjunction) View {
	view := View{Nodes: make([]Node, 0, len(objects))}

	byZone := make(map[string][]int)
	for _, obj := range objects {
		zone := conjunction.OrbitZone(obj.Orbit.Elements().AltitudeKm())
		view.Nodes = append(view.Nodes, Node{
			CatalogNumber: obj.CatalogNumber,
			Name:          obj.Name,
			Category:      string(obj.Category),
			Zone:          zone,
		})
		byZone[zone] = append(byZone[zone], obj.CatalogNumber)
	}

	for _, c := range conjunctions {
		view.Edges = append(view.Edges, Edge{
			Source: c.Object1.CatalogNumber,
			Target: c.Object2.CatalogNumber,
			Kind:   EdgeConjunction,
			Weight: c.Probability,
		})
	}

	for _, members := range byZone {
		for i := 1; i < len(members); i++ {
			view.Edges = append(view.Edges, Edge{
				Source: members[i-1],
				Target: members[i],
				Kind:   EdgeZoneCluster,
				Weight: ClusterEdgeWeight,
			})
		}
	}

	return view
}
