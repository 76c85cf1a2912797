package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/stake-plus/dao-governance/src/api/config"
	"github.com/stake-plus/dao-governance/src/api/data"
	"github.com/stake-plus/dao-governance/src/api/webserver"
	"github.com/stake-plus/dao-governance/src/gov"
	"github.com/stake-plus/dao-governance/src/gov/store"
)

func migrate(db *gorm.DB) {
	// never drop-and-recreate here: these tables hold the treasury
	models := append(store.Models(), &data.Setting{})
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

// startSweeper publishes a voting_ended notice once per proposal whose
// window has closed. Execution stays manual; the sweeper only announces.
func startSweeper(eng *gov.Engine, rdb *redis.Client, spec string) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		pending, err := eng.AwaitingExecution()
		if err != nil {
			if !errors.Is(err, gov.ErrNotInitialized) {
				log.Printf("sweeper: %v", err)
			}
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, p := range pending {
			fresh, err := data.ClaimSweep(ctx, rdb, p.ID)
			if err != nil {
				log.Printf("sweeper: claim %d: %v", p.ID, err)
				continue
			}
			if !fresh {
				continue
			}
			if err := data.PublishEvent(ctx, rdb, map[string]interface{}{
				"event":  "voting_ended",
				"id":     p.ID,
				"type":   p.Type,
				"action": string(p.Action),
				"title":  p.Title,
			}); err != nil {
				log.Printf("sweeper: publish %d: %v", p.ID, err)
			}
		}
	})
	if err != nil {
		log.Fatalf("sweeper: bad spec %q: %v", spec, err)
	}
	c.Start()
	return c
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	if err := data.LoadSettings(db); err != nil {
		log.Fatalf("settings: %v", err)
	}

	st := store.NewMySQL(db)
	led := store.NewMySQLLedger(db)
	rdb := data.MustRedis(cfg.RedisURL)

	eng := gov.NewEngine(st, led, data.NewStreamNotifier(rdb))
	eng.MirrorBalances = cfg.LedgerMode == config.LedgerModeMirror

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.RPCURL != "" {
		data.StartRemarkWatcher(ctx, cfg.RPCURL, rdb)
	}
	var track func(addr string)
	if eng.MirrorBalances {
		track = func(addr string) {
			if err := led.TrackAddress(addr); err != nil {
				log.Printf("track %s: %v", addr, err)
			}
		}
		go data.BalanceMirrorService(ctx, led, st, cfg.RPCURL,
			time.Duration(cfg.PollInterval)*time.Second)
	}

	sweeper := startSweeper(eng, rdb, cfg.SweepSpec)

	router := webserver.New(cfg, eng, db, rdb, track)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		var err error
		if cfg.TLSCert != "" {
			reloader, rerr := webserver.NewTLSReloader(cfg.TLSCert, cfg.TLSKey)
			if rerr != nil {
				log.Fatalf("tls: %v", rerr)
			}
			httpSrv.TLSConfig = reloader.GetConfig()
			err = httpSrv.ListenAndServeTLS("", "")
		} else {
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("DAO governance API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	sweeper.Stop()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
