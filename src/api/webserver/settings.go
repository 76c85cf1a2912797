package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/dao-governance/src/api/data"
	"github.com/stake-plus/dao-governance/src/gov"
)

type Settings struct {
	eng *gov.Engine
	db  *gorm.DB
}

func NewSettings(eng *gov.Engine, db *gorm.DB) Settings {
	return Settings{eng: eng, db: db}
}

// requireSuperAdmin gates service-level knobs the same way the engine gates
// floor administration. Standard organizations carry no roles, so these
// knobs stay env-driven there.
func (s Settings) requireSuperAdmin(c *gin.Context) bool {
	org, err := s.eng.Organization()
	if err != nil {
		httpError(c, err)
		return false
	}
	role, err := s.eng.MemberRole(c.GetString("addr"))
	if err != nil {
		httpError(c, err)
		return false
	}
	if role.Weight < org.MinSuperAdminWeight {
		httpError(c, gov.ErrInsufficientRoleWeight)
		return false
	}
	return true
}

func (s Settings) SetDiscordChannel(c *gin.Context) {
	var req struct {
		ChannelID string `json:"channelId" binding:"required,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !s.requireSuperAdmin(c) {
		return
	}
	if err := data.SetSetting(s.db, data.SettingDiscordChannel, req.ChannelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
