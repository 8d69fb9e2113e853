package store

import (
	"errors"
	"fmt"

	"isomesh/internal/meshing"

	"google.golang.org/protobuf/encoding/protowire"
)

// A record is a protobuf-framed envelope around the raw chunk buffers:
//
//	1: key id (bytes)
//	2: format version (varint)
//	3: vertex count (varint)
//	4: meshlet count (varint)
//	5: chunk buffers in the meshing wire layout (bytes)
const (
	fieldKey      protowire.Number = 1
	fieldVersion  protowire.Number = 2
	fieldVertices protowire.Number = 3
	fieldMeshlets protowire.Number = 4
	fieldPayload  protowire.Number = 5
)

const recordVersion = 1

var errBadRecord = errors.New("store: malformed record")

func encodeRecord(c *meshing.Chunk, id string) ([]byte, error) {
	payload, err := c.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(payload)+len(id)+32)
	b = protowire.AppendTag(b, fieldKey, protowire.BytesType)
	b = protowire.AppendString(b, id)
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, recordVersion)
	b = protowire.AppendTag(b, fieldVertices, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.VertexCount()))
	b = protowire.AppendTag(b, fieldMeshlets, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.MeshletCount()))
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b, nil
}

func decodeRecord(b []byte, id string) (*meshing.Chunk, error) {
	var (
		gotID              string
		version            uint64
		vertices, meshlets uint64
		payload            []byte
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", errBadRecord, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldKey && typ == protowire.BytesType:
			gotID, n = protowire.ConsumeString(b)
		case num == fieldPayload && typ == protowire.BytesType:
			payload, n = protowire.ConsumeBytes(b)
		case typ == protowire.VarintType && (num == fieldVersion || num == fieldVertices || num == fieldMeshlets):
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			switch num {
			case fieldVersion:
				version = v
			case fieldVertices:
				vertices = v
			case fieldMeshlets:
				meshlets = v
			}
		default:
			// unknown fields are skipped
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", errBadRecord, num, protowire.ParseError(n))
		}
		b = b[n:]
	}

	if version != recordVersion {
		return nil, fmt.Errorf("%w: version %d", errBadRecord, version)
	}
	if gotID != id {
		return nil, fmt.Errorf("%w: key %q, want %q", errBadRecord, gotID, id)
	}
	c, err := meshing.UnmarshalChunk(payload)
	if err != nil {
		return nil, err
	}
	if uint64(c.VertexCount()) != vertices || uint64(c.MeshletCount()) != meshlets {
		return nil, fmt.Errorf("%w: counts disagree with payload", errBadRecord)
	}
	return c, nil
}
