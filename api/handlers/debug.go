package handlers

import (
	"channel-gate/contract"
	"channel-gate/repositories"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// IdentityScanner lists the stored sessions with their expiry.
type IdentityScanner interface {
	Entries() ([]repositories.DiskIdentity, error)
}

type DebugHandler struct {
	identities IdentityScanner
	scheduler  contract.IScheduler
}

func NewDebugHandler(identities IdentityScanner, scheduler contract.IScheduler) *DebugHandler {
	return &DebugHandler{identities: identities, scheduler: scheduler}
}

type SessionView struct {
	Session     string            `json:"session"`
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	Attributes  map[string]string `json:"attributes"`
	Watchlist   []string          `json:"watchlist"`
	StoredAt    time.Time         `json:"stored_at"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

// Identities handles GET /debug/identities
func (h *DebugHandler) Identities(c *gin.Context) {
	entries, err := h.identities.Entries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan identities"})
		return
	}

	sessions := lo.Map(entries, func(e repositories.DiskIdentity, _ int) SessionView {
		view := SessionView{
			Session:     e.Session,
			ID:          e.Identity.ID,
			DisplayName: e.Identity.DisplayName,
			Attributes:  e.Identity.Attributes,
			Watchlist:   e.Identity.Watchlist,
			StoredAt:    time.UnixMilli(e.StoredAt).UTC(),
		}
		if e.ExpiresAt > 0 {
			view.ExpiresAt = lo.ToPtr(time.Unix(int64(e.ExpiresAt), 0).UTC())
		}
		return view
	})
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Channels handles GET /debug/channels
func (h *DebugHandler) Channels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.scheduler.Active()})
}
