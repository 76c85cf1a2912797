package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/dao-governance/src/gov"
)

type Members struct{ eng *gov.Engine }

func NewMembers(eng *gov.Engine) Members { return Members{eng: eng} }

func (m Members) List(c *gin.Context) {
	members, err := m.eng.Members()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (m Members) Role(c *gin.Context) {
	role, err := m.eng.MemberRole(c.Param("addr"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (m Members) Add(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required,max=128"`
		Role    string `json:"role" binding:"required,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := m.eng.AddMember(c.GetString("addr"), req.Address, req.Role); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (m Members) Remove(c *gin.Context) {
	if err := m.eng.RemoveMember(c.GetString("addr"), c.Param("addr")); err != nil {
		httpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
