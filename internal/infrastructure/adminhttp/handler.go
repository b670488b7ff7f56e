// Package adminhttp exposes a small gin surface for inspecting live Peers.
package adminhttp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peercore/internal/core/domain"
	"peercore/pkg/errors"
)

// PeerDumper looks up a connected Peer by id and returns its PEER_DUMP
// snapshot. internal/infrastructure/channel.Server satisfies this.
type PeerDumper interface {
	DumpPeer(id domain.PeerID) (result any, ok bool)
}

type Handler struct {
	dumper PeerDumper
}

func NewHandler(dumper PeerDumper) *Handler {
	return &Handler{dumper: dumper}
}

func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/admin")
	{
		api.GET("/peers/:id/dump", h.DumpPeer)
	}
}

func (h *Handler) DumpPeer(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.Error(errors.NewInvalidInputError("peer id must be a non-negative integer"))
		return
	}

	dump, ok := h.dumper.DumpPeer(domain.PeerID(id))
	if !ok {
		c.Error(errors.NewNotFoundError("peer"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"peerId": id, "dump": dump})
}
