package vm

import (
	"encoding/binary"

	"github.com/MixinNetwork/mixin/common"
)

func Encode(val interface{}) []byte {
	return common.MsgpackMarshalPanic(val)
}

func Decode(b []byte, val interface{}) error {
	return common.MsgpackUnmarshal(b, val)
}

func Uint32Key(n uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	return buf[:]
}

func ParseUint32Key(b []byte) uint32 {
	if len(b) != 4 {
		panic(len(b))
	}
	return binary.BigEndian.Uint32(b)
}

func Uint64Key(n uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return buf[:]
}

// Key joins a namespace with big endian components, so that ranges over
// the namespace iterate in numeric order.
func Key(namespace string, parts ...[]byte) []byte {
	key := []byte(namespace)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}
