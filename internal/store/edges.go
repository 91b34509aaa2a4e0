package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sodaslab/ghmarket/internal/edgelist"
)

// WriteEdges writes the full edge list to path, one JSON object per line,
// replacing any previous file. Edge construction is a pure function of the
// user log, so the file is rebuilt rather than appended.
func WriteEdges(path string, edges []edgelist.Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating edge file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, edge := range edges {
		if err := enc.Encode(edge); err != nil {
			return fmt.Errorf("writing edge: %w", err)
		}
	}
	return w.Flush()
}

// LoadEdges reads an edge list written by WriteEdges.
func LoadEdges(path string) ([]edgelist.Edge, error) {
	var edges []edgelist.Edge
	err := eachLine(path, func(line []byte) error {
		var edge edgelist.Edge
		if err := json.Unmarshal(line, &edge); err != nil {
			return fmt.Errorf("parsing edge line: %w", err)
		}
		edges = append(edges, edge)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}
