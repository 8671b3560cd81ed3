package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trident-ems/trident/internal/services"
	"github.com/trident-ems/trident/internal/storage"
	"github.com/trident-ems/trident/internal/utils"
)

type CallHandler struct {
	calls  services.CallService
	signer storage.Signer // optional
}

func NewCallHandler(calls services.CallService, signer storage.Signer) *CallHandler {
	return &CallHandler{calls: calls, signer: signer}
}

func (h *CallHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, "CallHandler.List", "limit must be a non-negative integer", nil))
			return
		}
		limit = n
	}

	out, err := h.calls.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"calls": out, "count": len(out)})
}

func (h *CallHandler) Get(c *gin.Context) {
	out, err := h.calls.Get(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// AudioURL hands out a short-lived link to the retained recording of a call
// that was flagged for review.
func (h *CallHandler) AudioURL(c *gin.Context) {
	const op = "CallHandler.AudioURL"

	call, err := h.calls.Get(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !call.FlagAudioReview {
		writeError(c, utils.E(utils.CodeNotFound, op, "no audio retained for this call", nil))
		return
	}
	if h.signer == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "audio storage not configured", nil))
		return
	}

	const ttl = 15 * time.Minute
	url, err := h.signer.SignedGetURL(c.Request.Context(), "calls/"+call.CallID+".wav", ttl)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to sign audio url", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":                url,
		"expires_in_seconds": int(ttl.Seconds()),
	})
}
