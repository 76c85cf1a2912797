package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

// httpError maps engine sentinels onto HTTP statuses. Anything unmapped is
// a 500: those are store failures, not caller mistakes.
func httpError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"err": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, gov.ErrNotInitialized),
		errors.Is(err, gov.ErrUnknownProposal),
		errors.Is(err, gov.ErrUnknownProposalType):
		return http.StatusNotFound
	case errors.Is(err, gov.ErrNotMember),
		errors.Is(err, gov.ErrInsufficientRoleWeight),
		errors.Is(err, gov.ErrInsufficientWeight),
		errors.Is(err, gov.ErrMirroredLedger):
		return http.StatusForbidden
	case errors.Is(err, gov.ErrAlreadyInitialized),
		errors.Is(err, gov.ErrProposalExpired),
		errors.Is(err, gov.ErrVotingNotEnded),
		errors.Is(err, gov.ErrAlreadyExecuted),
		errors.Is(err, gov.ErrLastPolicy),
		errors.Is(err, gov.ErrRoleInUse),
		errors.Is(err, gov.ErrInsufficientTreasury),
		errors.Is(err, gov.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, gov.ErrInvalidRole),
		errors.Is(err, gov.ErrInvalidChoice),
		errors.Is(err, gov.ErrInvalidUpdateKind),
		errors.Is(err, gov.ErrInvalidPayload),
		errors.Is(err, gov.ErrWrongExecutionEntrypoint),
		errors.Is(err, gov.ErrTokenTypeMismatch),
		errors.Is(err, gov.ErrWeightOverflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
