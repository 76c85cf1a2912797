package polkadot

import (
	"context"
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Client wraps the Substrate RPC surface the governance service needs:
// block subscription for the remark watcher and raw storage reads.
type Client struct {
	api *gsrpc.SubstrateAPI
}

func NewClient(url string) (*Client, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{api: api}, nil
}

// SubscribeBlocks feeds every new finalized-head block to fn until the
// context ends or the subscription drops. The caller owns reconnects.
func (c *Client) SubscribeBlocks(ctx context.Context, fn func(block *types.SignedBlock)) error {
	sub, err := c.api.RPC.Chain.SubscribeNewHeads()
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case head, ok := <-sub.Chan():
			if !ok {
				return fmt.Errorf("head stream closed")
			}
			hash, err := c.api.RPC.Chain.GetBlockHash(uint64(head.Number))
			if err != nil {
				continue
			}
			block, err := c.api.RPC.Chain.GetBlock(hash)
			if err != nil || block == nil {
				continue
			}
			fn(block)
		}
	}
}
