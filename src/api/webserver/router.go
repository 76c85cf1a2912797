package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stake-plus/dao-governance/src/api/config"
	"github.com/stake-plus/dao-governance/src/gov"
)

// New builds the HTTP surface. track, when non-nil, receives every freshly
// authenticated address so the balance mirror can pick it up.
func New(cfg config.Config, eng *gov.Engine, db *gorm.DB, rdb *redis.Client, track func(addr string)) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	attachRoutes(r, cfg, eng, db, rdb, track)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, eng *gov.Engine, db *gorm.DB, rdb *redis.Client, track func(addr string)) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(rdb, []byte(cfg.JWTSecret), track)
	orgH := NewOrg(eng)
	policyH := NewPolicies(eng)
	roleH := NewRoles(eng)
	memberH := NewMembers(eng)
	propH := NewProposals(eng)
	voteH := NewVotes(eng)
	execH := NewExecute(eng)
	treasH := NewTreasury(eng)
	settingsH := NewSettings(eng, db)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		// reads are public
		v1.GET("/org", orgH.Get)
		v1.GET("/policies", policyH.List)
		v1.GET("/policies/:name", policyH.Get)
		v1.GET("/roles", roleH.List)
		v1.GET("/members", memberH.List)
		v1.GET("/members/:addr/role", memberH.Role)
		v1.GET("/proposals", propH.List)
		v1.GET("/proposals/:id", propH.Get)
		v1.GET("/proposals/:id/votes/:addr", propH.VoteOf)
		v1.GET("/treasury/:asset", treasH.Balance)
		v1.GET("/balances/:addr", treasH.AccountBalance)

		limiter := NewRateLimiter(30, time.Minute)
		secured := v1.Group("")
		secured.Use(JWTMiddleware([]byte(cfg.JWTSecret)), limiter.Middleware())
		{
			secured.POST("/org/init", orgH.Init)
			secured.PUT("/org/floors", orgH.SetFloors)
			secured.POST("/policies", policyH.Upsert)
			secured.DELETE("/policies/:name", policyH.Remove)
			secured.POST("/roles", roleH.Upsert)
			secured.DELETE("/roles/:name", roleH.Remove)
			secured.POST("/members", memberH.Add)
			secured.DELETE("/members/:addr", memberH.Remove)
			secured.POST("/proposals", propH.Create)
			secured.POST("/votes", voteH.Cast)
			secured.POST("/execute", execH.Run)
			secured.POST("/treasury/deposit", treasH.Deposit)
			secured.POST("/balances/deposit", treasH.Faucet)
			secured.POST("/admin/discord/channel", settingsH.SetDiscordChannel)
		}
	}
}
