package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring over stripe indices
type ring struct {
	hashRing *treemap.Map

	// minStripe caches the stripe of the min entry in hashRing, since
	// treemap.Map.Min() is O(log n).
	minStripe int
}

// newRing returns a consistent hash ring where each of the stripes has
// replicationFactor entries. At least one stripe is required.
func newRing(stripes, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for stripe := 0; stripe < int(stripes); stripe++ {
		stripeHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("stripe%d", stripe)))
		stripeHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(stripeHashBytes, stripeHash)

		for i := 0; i < int(replicationFactor); i++ {
			hasher := murmur3.New128()
			hasher.Write(stripeHashBytes)
			indexBytes := make([]byte, 4)
			binary.LittleEndian.PutUint32(indexBytes, uint32(i))
			hasher.Write(indexBytes)
			hash, _ := hasher.Sum128()
			hashRing.Put(int64(hash), stripe)
		}
	}

	_, minStripe := hashRing.Min()

	return &ring{
		hashRing:  hashRing,
		minStripe: minStripe.(int),
	}
}

// shard consistently hashes the key and returns its stripe
func (r *ring) shard(key []byte) int {
	hasher := murmur3.New128()
	hasher.Write(key)
	raw, _ := hasher.Sum128()
	_, stripe := r.hashRing.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.minStripe
}
