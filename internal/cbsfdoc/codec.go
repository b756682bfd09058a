// # internal/cbsfdoc/codec.go
//
// The CBSF document is a self-describing binary envelope: a 4-byte magic
// tag, a big-endian uint16 schema version, and a zstd-compressed JSON
// payload. Node names appear once in a table; edges reference nodes by
// index, so the encoding stays compact for any non-trivial graph. No raw
// source text is embedded.
package cbsfdoc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"cbsf/internal/cbsferr"
	"cbsf/internal/graph"
)

// SchemaVersion is the only version this decoder recognizes.
const SchemaVersion uint16 = 1

var magic = [4]byte{'C', 'B', 'S', 'F'}

const headerLen = len(magic) + 2

// Metadata travels with the graph through the document. GeneratedAt is
// kept as unix nanoseconds so the round trip is bit-exact.
type Metadata struct {
	TotalSourceBytes    int64  `json:"total_source_bytes"`
	GeneratedAtUnixNano int64  `json:"generated_at_unix_ns"`
	RunID               string `json:"run_id"`
}

// GeneratedTime converts the stored timestamp back to a time value.
func (m Metadata) GeneratedTime() time.Time {
	return time.Unix(0, m.GeneratedAtUnixNano).UTC()
}

type nodeRecord struct {
	Name string `json:"n"`
	Size int64  `json:"s"`
}

// payload is the inner JSON document: node table, [source, target,
// weight] triples, metadata.
type payload struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges [][3]int     `json:"edges"`
	Meta  Metadata     `json:"meta"`
}

// Encode serializes the graph and metadata into a CBSF document.
func Encode(g *graph.Graph, meta Metadata) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	doc := payload{
		Nodes: make([]nodeRecord, 0, len(g.Nodes)),
		Edges: make([][3]int, 0, len(g.Edges)),
		Meta:  meta,
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, nodeRecord{Name: n.Name, Size: n.Size})
	}
	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, [3]int{e.Source, e.Target, e.Weight})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, cbsferr.Wrap(err, cbsferr.CodeInternal, "marshal document payload")
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, cbsferr.Wrap(err, cbsferr.CodeInternal, "initialize zstd encoder")
	}
	defer enc.Close()

	out := make([]byte, headerLen, headerLen+len(raw)/2)
	copy(out, magic[:])
	binary.BigEndian.PutUint16(out[len(magic):], SchemaVersion)
	return enc.EncodeAll(raw, out), nil
}

// Decode parses a CBSF document back into an equivalent graph and
// metadata. Unknown schema versions are rejected outright; any malformed
// content fails with a corrupt-document error.
func Decode(data []byte) (*graph.Graph, Metadata, error) {
	if len(data) < headerLen {
		return nil, Metadata{}, cbsferr.New(cbsferr.CodeCorruptDocument, "document shorter than header")
	}
	if string(data[:len(magic)]) != string(magic[:]) {
		return nil, Metadata{}, cbsferr.New(cbsferr.CodeCorruptDocument, "bad magic tag")
	}

	version := binary.BigEndian.Uint16(data[len(magic):headerLen])
	if version != SchemaVersion {
		return nil, Metadata{}, cbsferr.AddContext(
			cbsferr.New(cbsferr.CodeUnsupportedVersion,
				fmt.Sprintf("schema version %d not recognized", version)),
			cbsferr.CtxVersion, version)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, Metadata{}, cbsferr.Wrap(err, cbsferr.CodeInternal, "initialize zstd decoder")
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[headerLen:], nil)
	if err != nil {
		return nil, Metadata{}, cbsferr.Wrap(err, cbsferr.CodeCorruptDocument, "decompress payload")
	}

	var doc payload
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, Metadata{}, cbsferr.Wrap(err, cbsferr.CodeCorruptDocument, "unmarshal payload")
	}

	g := &graph.Graph{
		Nodes: make([]graph.Node, 0, len(doc.Nodes)),
		Edges: make([]graph.Edge, 0, len(doc.Edges)),
	}
	for _, n := range doc.Nodes {
		g.Nodes = append(g.Nodes, graph.Node{Name: n.Name, Size: n.Size})
	}
	for _, e := range doc.Edges {
		g.Edges = append(g.Edges, graph.Edge{Source: e[0], Target: e[1], Weight: e[2]})
	}

	if err := g.Validate(); err != nil {
		return nil, Metadata{}, cbsferr.Wrap(err, cbsferr.CodeCorruptDocument, "document violates graph invariants")
	}

	return g, doc.Meta, nil
}
