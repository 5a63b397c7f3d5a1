package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/gin-gonic/gin"
)

// MemberLister reports the known cluster members.
type MemberLister interface {
	Members() []*cluster.Node
}

// HandleMembers returns all cluster members sorted by name. A standalone
// node (nil lister) reports an empty cluster.
func HandleMembers(lister MemberLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var nodes []*cluster.Node
		if lister != nil {
			nodes = lister.Members()
		}

		members := make([]wire.Member, 0, len(nodes))
		for _, node := range nodes {
			members = append(members, wire.Member{
				ID:       node.ID,
				Name:     node.Name,
				Address:  fmt.Sprintf("%s:%d", node.Addr, node.Port),
				APIAddr:  node.APIAddr(),
				Status:   node.Status.String(),
				Tags:     node.Tags,
				LastSeen: node.LastSeen,
			})
		}

		c.JSON(http.StatusOK, wire.Envelope[[]wire.Member]{
			Status: "success",
			Data:   members,
			Count:  len(members),
		})
	}
}

// StatsSource reports the store counters of a node.
type StatsSource interface {
	Stats() store.Stats
}

// HandleStats returns the token pool and store counters of the node
func HandleStats(node string, sub *submit.Submitter, st StatsSource, batches *atomic.Int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, wire.Envelope[wire.NodeStats]{
			Status: "success",
			Data: wire.NodeStats{
				Node:    node,
				Mode:    sub.Config().Mode.String(),
				Pool:    sub.Stats(),
				Store:   st.Stats(),
				Batches: batches.Load(),
			},
		})
	}
}
