package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const maxNodeID int64 = 1<<10 - 1

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator. A negative nodeID picks a
// random node, which is fine for a single replica.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		random, err := generateRandomNodeID()
		if err != nil {
			return nil, err
		}
		nodeID = random
	}

	if nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id %d out of range 0..%d", nodeID, maxNodeID)
	}

	snowflake.Epoch = 1767225600000 // Thu Jan 01 2026 00:00:00.000 UTC

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
