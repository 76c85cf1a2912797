package data

import (
	"bytes"
	"context"
	"log"
	"strings"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/dao-governance/src/polkadot"
)

// Airgapped signers prove address ownership by submitting a system.remark
// of the form "DAOGOV LOGIN <address> <nonce>" instead of signing the
// challenge directly.
const remarkNeedle = "DAOGOV LOGIN "

// StartRemarkWatcher follows new blocks and confirms login nonces found in
// remark extrinsics. Reconnects with a flat backoff until the context ends.
func StartRemarkWatcher(ctx context.Context, rpcURL string, rdb *redis.Client) {
	go func() {
		for {
			if err := watchRemarks(ctx, rpcURL, rdb); err != nil {
				log.Printf("remark watcher: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Second):
			}
		}
	}()
}

func watchRemarks(ctx context.Context, rpcURL string, rdb *redis.Client) error {
	client, err := polkadot.NewClient(rpcURL)
	if err != nil {
		return err
	}
	return client.SubscribeBlocks(ctx, func(block *types.SignedBlock) {
		for _, ext := range block.Block.Extrinsics {
			confirmRemark(ctx, rdb, ext.Method.Args)
		}
	})
}

// confirmRemark scans raw call args for the login needle. The remark text
// sits verbatim behind a compact length prefix, so a substring match skips
// SCALE decoding and call-index bookkeeping entirely.
func confirmRemark(ctx context.Context, rdb *redis.Client, args []byte) {
	idx := bytes.Index(args, []byte(remarkNeedle))
	if idx < 0 {
		return
	}
	fields := strings.Fields(printablePrefix(args[idx+len(remarkNeedle):]))
	if len(fields) < 2 {
		return
	}
	addr, nonce := fields[0], fields[1]

	stored, err := GetNonce(ctx, rdb, addr)
	if err != nil || stored != nonce {
		return
	}
	if err := ConfirmNonce(ctx, rdb, addr); err != nil {
		log.Printf("remark watcher confirm %s: %v", addr, err)
	}
}

func printablePrefix(b []byte) string {
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			return string(b[:i])
		}
	}
	return string(b)
}
