// # internal/cbsfdoc/codec_test.go
package cbsfdoc

import (
	"encoding/binary"
	"testing"
	"time"

	"cbsf/internal/cbsferr"
	"cbsf/internal/graph"
)

func sampleGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{Name: "app", Size: 1200},
			{Name: "app.db", Size: 800},
			{Name: "app.util", Size: 400},
		},
		Edges: []graph.Edge{
			{Source: 0, Target: 1, Weight: 2},
			{Source: 0, Target: 2, Weight: 1},
			{Source: 1, Target: 2, Weight: 3},
		},
	}
}

func sampleMeta() Metadata {
	return Metadata{
		TotalSourceBytes:    2400,
		GeneratedAtUnixNano: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).UnixNano(),
		RunID:               "f4b6bc31-1f3c-4a51-9f67-0123456789ab",
	}
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph()
	meta := sampleMeta()

	data, err := Encode(g, meta)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, decodedMeta, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !g.Equal(decoded) {
		t.Errorf("Graph changed across round trip:\nwant %v\ngot  %v", g, decoded)
	}
	if decodedMeta != meta {
		t.Errorf("Metadata changed across round trip:\nwant %+v\ngot  %+v", meta, decodedMeta)
	}
}

func TestRoundTripEmptyGraph(t *testing.T) {
	g := &graph.Graph{}
	meta := Metadata{}

	data, err := Encode(g, meta)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, decodedMeta, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Nodes) != 0 || len(decoded.Edges) != 0 {
		t.Errorf("Expected empty graph, got %v", decoded)
	}
	if decodedMeta != meta {
		t.Errorf("Metadata mismatch: %+v", decodedMeta)
	}
}

func TestCompactness(t *testing.T) {
	// Synthetic codebase: 10 modules of 1000 bytes, 9 chain edges.
	g := &graph.Graph{}
	for i := 0; i < 10; i++ {
		g.Nodes = append(g.Nodes, graph.Node{
			Name: "pkg.module" + string(rune('a'+i)),
			Size: 1000,
		})
	}
	for i := 0; i < 9; i++ {
		g.Edges = append(g.Edges, graph.Edge{Source: i, Target: i + 1, Weight: 1})
	}

	data, err := Encode(g, Metadata{TotalSourceBytes: 10000})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) >= 10000 {
		t.Errorf("Encoded document must be smaller than the 10000-byte source set, got %d bytes", len(data))
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	data, err := Encode(sampleGraph(), sampleMeta())
	if err != nil {
		t.Fatal(err)
	}
	binary.BigEndian.PutUint16(data[4:6], 99)

	_, _, err = Decode(data)
	if err == nil {
		t.Fatal("Expected error for unknown schema version")
	}
	if !cbsferr.IsCode(err, cbsferr.CodeUnsupportedVersion) {
		t.Errorf("Expected UNSUPPORTED_VERSION, got %v", err)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	t.Run("Truncated", func(t *testing.T) {
		data, err := Encode(sampleGraph(), sampleMeta())
		if err != nil {
			t.Fatal(err)
		}
		_, _, err = Decode(data[:len(data)/2])
		if !cbsferr.IsCode(err, cbsferr.CodeCorruptDocument) {
			t.Errorf("Expected CORRUPT_DOCUMENT for truncated data, got %v", err)
		}
	})

	t.Run("TooShort", func(t *testing.T) {
		_, _, err := Decode([]byte("CB"))
		if !cbsferr.IsCode(err, cbsferr.CodeCorruptDocument) {
			t.Errorf("Expected CORRUPT_DOCUMENT for short data, got %v", err)
		}
	})

	t.Run("BadMagic", func(t *testing.T) {
		data, err := Encode(sampleGraph(), sampleMeta())
		if err != nil {
			t.Fatal(err)
		}
		data[0] = 'X'
		_, _, err = Decode(data)
		if !cbsferr.IsCode(err, cbsferr.CodeCorruptDocument) {
			t.Errorf("Expected CORRUPT_DOCUMENT for bad magic, got %v", err)
		}
	})

	t.Run("EdgeOutOfBounds", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{{Name: "a"}, {Name: "b"}},
			Edges: []graph.Edge{{Source: 0, Target: 1, Weight: 1}},
		}
		data, err := Encode(g, Metadata{})
		if err != nil {
			t.Fatal(err)
		}
		// Re-encode by hand is awkward; instead corrupt via a graph the
		// encoder would reject and check Encode refuses it.
		bad := &graph.Graph{
			Nodes: []graph.Node{{Name: "a"}},
			Edges: []graph.Edge{{Source: 0, Target: 3, Weight: 1}},
		}
		if _, err := Encode(bad, Metadata{}); err == nil {
			t.Error("Expected Encode to reject out-of-bounds edge")
		}
		// And the valid document still decodes.
		if _, _, err := Decode(data); err != nil {
			t.Errorf("Valid document failed to decode: %v", err)
		}
	})
}
