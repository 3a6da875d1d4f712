package badger

import (
	"encoding/binary"

	"github.com/toriana04/fraudintel/core"
)

const vectorPrefix = "vec:"

// makeVectorPrefix returns the key prefix shared by every vector in namespace.
// Format: vec:<uvarint len(namespace)><namespace>
//
// The length prefix keeps one namespace from being a key prefix of another,
// e.g. "nomic-embed-text" and "nomic-embed-text:latest".
func makeVectorPrefix(namespace string) []byte {
	buf := make([]byte, 0, len(vectorPrefix)+binary.MaxVarintLen64+len(namespace))
	buf = append(buf, vectorPrefix...)
	buf = binary.AppendUvarint(buf, uint64(len(namespace)))
	return append(buf, namespace...)
}

// makeVectorKey generates the key of one cached vector.
// Format: vec:<uvarint len(namespace)><namespace><8-byte big-endian id>
func makeVectorKey(namespace string, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(makeVectorPrefix(namespace), uint64(id))
}
