package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Treasury struct{ eng *gov.Engine }

func NewTreasury(eng *gov.Engine) Treasury { return Treasury{eng: eng} }

func (t Treasury) Balance(c *gin.Context) {
	asset := c.Param("asset")
	bal, err := t.eng.TreasuryBalance(asset)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset, "amount": bal})
}

func (t Treasury) Deposit(c *gin.Context) {
	var req struct {
		Asset  string `json:"asset" binding:"required,max=256"`
		Amount uint64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := t.eng.DepositTreasury(c.GetString("addr"), req.Asset, req.Amount); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (t Treasury) AccountBalance(c *gin.Context) {
	addr := c.Param("addr")
	bal, err := t.eng.Balance(addr)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "amount": bal})
}

// Faucet credits the caller's internal balance. Rejected when balances are
// mirrored from chain.
func (t Treasury) Faucet(c *gin.Context) {
	var req struct {
		Amount uint64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := t.eng.CreditBalance(c.GetString("addr"), req.Amount); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
