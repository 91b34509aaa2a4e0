package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

type gexfFile struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Meta    gexfMeta  `xml:"meta"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfMeta struct {
	LastModified string `xml:"lastmodifieddate,attr"`
	Creator      string `xml:"creator"`
	Description  string `xml:"description"`
}

type gexfGraph struct {
	DefaultEdgeType  string               `xml:"defaultedgetype,attr"`
	Mode             string               `xml:"mode,attr"`
	AttributeClasses []gexfAttributeClass `xml:"attributes"`
	Nodes            gexfNodes            `xml:"nodes"`
	Edges            gexfEdges            `xml:"edges"`
}

type gexfAttributeClass struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Nodes []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID        string        `xml:"id,attr"`
	Label     string        `xml:"label,attr"`
	AttValues gexfAttValues `xml:"attvalues"`
}

type gexfAttValues struct {
	AttValues []gexfAttValue `xml:"attvalue"`
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdges struct {
	Edges []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID        string        `xml:"id,attr"`
	Source    string        `xml:"source,attr"`
	Target    string        `xml:"target,attr"`
	Weight    string        `xml:"weight,attr,omitempty"`
	AttValues gexfAttValues `xml:"attvalues"`
}

// WriteCompanyGEXF serializes a company graph for Gephi. Nodes and edges
// are emitted in sorted key order so repeated runs produce identical files.
func WriteCompanyGEXF(w io.Writer, g *CompanyGraph, description string) error {
	nodes := make([]gexfNode, 0, len(g.Nodes))
	for _, name := range sortedKeys(g.Nodes) {
		node := g.Nodes[name]
		attValues := []gexfAttValue{
			{For: "0", Value: fmt.Sprintf("%d", node.Category)},
			{For: "1", Value: node.Label},
			{For: "2", Value: fmt.Sprintf("%d", node.Users)},
		}
		nodes = append(nodes, gexfNode{
			ID:        node.Name,
			Label:     node.Name,
			AttValues: gexfAttValues{AttValues: attValues},
		})
	}

	edges := make([]gexfEdge, 0, len(g.Edges))
	edgeID := 0
	for _, key := range sortedKeys(g.Edges) {
		edge := g.Edges[key]
		intra, inter := 0, 1
		if edge.Source == edge.Target {
			intra, inter = 1, 0
		}
		attValues := []gexfAttValue{
			{For: "0", Value: fmt.Sprintf("%d", edge.Counts.Follows)},
			{For: "1", Value: fmt.Sprintf("%d", edge.Counts.Stars)},
			{For: "2", Value: fmt.Sprintf("%d", edge.Counts.Watches)},
			{For: "3", Value: fmt.Sprintf("%d", edge.Counts.Forks)},
			{For: "4", Value: fmt.Sprintf("%d", intra)},
			{For: "5", Value: fmt.Sprintf("%d", inter)},
		}
		edges = append(edges, gexfEdge{
			ID:        fmt.Sprintf("e%d", edgeID),
			Source:    edge.Source,
			Target:    edge.Target,
			Weight:    fmt.Sprintf("%d", edge.Weight),
			AttValues: gexfAttValues{AttValues: attValues},
		})
		edgeID++
	}

	doc := gexfFile{
		XMLNS:   "http://gexf.net/1.3",
		Version: "1.3",
		Meta: gexfMeta{
			LastModified: time.Now().Format("2006-01-02"),
			Creator:      "ghmarket",
			Description:  description,
		},
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			Mode:            "static",
			AttributeClasses: []gexfAttributeClass{
				{
					Class: "node",
					Attributes: []gexfAttribute{
						{ID: "0", Title: "category", Type: "integer"},
						{ID: "1", Title: "category_label", Type: "string"},
						{ID: "2", Title: "users", Type: "integer"},
					},
				},
				{
					Class: "edge",
					Attributes: []gexfAttribute{
						{ID: "0", Title: "follows", Type: "integer"},
						{ID: "1", Title: "stars", Type: "integer"},
						{ID: "2", Title: "watches", Type: "integer"},
						{ID: "3", Title: "forks", Type: "integer"},
						{ID: "4", Title: "d_intra_level", Type: "integer"},
						{ID: "5", Title: "d_inter_level", Type: "integer"},
					},
				},
			},
			Nodes: gexfNodes{Nodes: nodes},
			Edges: gexfEdges{Edges: edges},
		},
	}

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	return encoder.Encode(doc)
}
