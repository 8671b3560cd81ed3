package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trident-ems/trident/internal/audio"
	"github.com/trident-ems/trident/internal/services"
	"github.com/trident-ems/trident/internal/utils"
)

// ~17 minutes of float32 mono at 16 kHz
const maxAnalyzeBody = 64 << 20

type AnalyzeHandler struct {
	svc services.AnalyzeService
}

func NewAnalyzeHandler(svc services.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze runs the full pipeline over one complete recording. The body is raw
// little-endian float32 mono PCM, same format as the live WebSocket frames.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	const op = "AnalyzeHandler.Analyze"

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAnalyzeBody+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read request body", err))
		return
	}
	if len(data) > maxAnalyzeBody {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio too large", nil))
		return
	}

	samples := audio.DecodeFloat32(data)
	if len(samples) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "empty audio", nil))
		return
	}

	out, err := h.svc.Analyze(c.Request.Context(), samples)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
