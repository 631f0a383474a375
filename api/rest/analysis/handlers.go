package analysis

import (
	"context"
	stderrors "errors"
	"net/http"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/chronicle"
	"github.com/harishkotra/onchain-chronicler/internal/errors"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
)

// a transaction hash: 0x followed by exactly 32 bytes of hex
var txHashRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Orchestrator is the analysis pipeline surface the handlers depend on
type Orchestrator interface {
	Status(ctx context.Context, txHash common.Hash) (*chronicle.Status, error)
	Analyze(ctx context.Context, txHash common.Hash) (*chronicle.Result, error)
}

// creates a handler for the read-only chronicle status check
func StatusHandler(orch Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		txHash, ok := bindTxHash(c)
		if !ok {
			return
		}

		status, err := orch.Status(c.Request.Context(), txHash)
		if err != nil {
			errors.LedgerReadError(c, "failed to check chronicle status", err)
			return
		}

		resp := StatusResponse{
			ChronicleExists: status.ChronicleExists,
			RequestPending:  status.RequestPending,
			SubmissionFee:   "0",
		}

		if status.Chronicle != nil {
			resp.Chronicle = &ChronicleView{
				Narrative: status.Chronicle.Narrative,
				Requester: status.Chronicle.Requester.Hex(),
				Timestamp: status.Chronicle.Timestamp,
			}
		}

		if status.Requester != "" {
			resp.Requester = &status.Requester
		}

		if status.SubmissionFee != nil {
			resp.SubmissionFee = status.SubmissionFee.String()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// creates a handler for running a transaction analysis
func AnalyzeHandler(orch Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		txHash, ok := bindTxHash(c)
		if !ok {
			return
		}

		result, err := orch.Analyze(c.Request.Context(), txHash)
		if err != nil {
			respondAnalyzeError(c, err)
			return
		}

		switch {
		case result.AlreadyExisted:
			c.JSON(http.StatusOK, AnalyzeResponse{
				Message:   "chronicle already exists for this transaction",
				Narrative: result.Narrative,
			})
		case result.AlreadyInFlight:
			c.JSON(http.StatusOK, AnalyzeResponse{
				Message: "analysis already in progress for this transaction",
			})
		default:
			c.JSON(http.StatusOK, AnalyzeResponse{
				Message:         "chronicle recorded on-chain",
				Narrative:       result.Narrative,
				ChronicleTxHash: result.CommitTxHash,
			})
		}
	}
}

// maps pipeline failures to their stable machine-readable kinds
func respondAnalyzeError(c *gin.Context, err error) {
	var writeErr *chronicle.WriteError

	switch {
	case stderrors.Is(err, chronicle.ErrPendingRequestNotFound):
		c.JSON(http.StatusBadRequest, analyzeError{
			Message: "no pending analysis request found for this transaction; submit the request on-chain first",
			Error:   errors.KindPendingRequestNotFound,
		})
	case stderrors.Is(err, chronicle.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, analyzeError{
			Message: "transaction not found on the ledger",
			Error:   errors.KindTransactionNotFound,
		})
	case stderrors.Is(err, chronicle.ErrUpstreamAI):
		logger.ErrorErr(err, "narrative generation failed", "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, analyzeError{
			Message: "narrative generation failed; please retry",
			Error:   errors.KindUpstreamAIError,
		})
	case stderrors.As(err, &writeErr):
		logger.ErrorErr(err, "chronicle commit failed", "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, analyzeError{
			Message:   "narrative was generated but could not be recorded on-chain",
			Error:     errors.KindLedgerWriteError,
			Narrative: writeErr.Narrative,
		})
	default:
		errors.InternalError(c, "analysis failed", err)
	}
}

// binds and validates the txHash field; writes the 400 itself on failure.
// Validation happens before any ledger or AI call.
func bindTxHash(c *gin.Context) (common.Hash, bool) {
	var req Request

	if err := c.ShouldBindJSON(&req); err != nil {
		errors.ValidationError(c, "txHash is required")
		return common.Hash{}, false
	}

	if !txHashRegex.MatchString(req.TxHash) {
		errors.ValidationError(c, "txHash must be a 32-byte hex value prefixed with 0x")
		return common.Hash{}, false
	}

	return common.HexToHash(req.TxHash), true
}
