package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Execute struct{ eng *gov.Engine }

func NewExecute(eng *gov.Engine) Execute { return Execute{eng: eng} }

// Run settles an ended proposal. Token transfers must supply the token
// witness, which routes them through the dedicated entrypoint.
func (e Execute) Run(c *gin.Context) {
	var req struct {
		ProposalID *uint64 `json:"proposalId" binding:"required"`
		TokenType  string  `json:"tokenType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	caller := c.GetString("addr")
	var err error
	if req.TokenType != "" {
		err = e.eng.ExecuteTokenTransfer(caller, *req.ProposalID, req.TokenType)
	} else {
		err = e.eng.Execute(caller, *req.ProposalID)
	}
	if err != nil {
		httpError(c, err)
		return
	}

	prop, err := e.eng.Proposal(*req.ProposalID)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": prop.Result})
}
