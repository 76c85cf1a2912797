package gov

// DepositTreasury moves funds into the treasury under an asset key. When the
// asset is the organization's own token and the ledger is kept internally,
// the depositor's balance funds the deposit; any other asset is recorded as
// arriving from outside the ledger's view.
func (e *Engine) DepositTreasury(from, asset string, amount uint64) error {
	if asset == "" || amount == 0 {
		return ErrInvalidPayload
	}

	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if asset == org.TokenRef && !e.MirrorBalances {
		if err := e.ledger.Debit(from, amount); err != nil {
			return err
		}
	}
	return e.ledger.TreasuryCredit(asset, amount)
}

// TreasuryBalance reports the treasury's holdings of one asset.
func (e *Engine) TreasuryBalance(asset string) (uint64, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return 0, err
	}
	return e.ledger.TreasuryBalance(asset)
}

// Balance reports an account's governance-token balance.
func (e *Engine) Balance(account string) (uint64, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return 0, err
	}
	return e.ledger.Balance(account)
}

// CreditBalance is the internal-ledger faucet. It refuses to run when the
// ledger mirrors an external chain; balances then belong to the indexer.
func (e *Engine) CreditBalance(account string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidPayload
	}

	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	if _, err := e.organization(); err != nil {
		return err
	}
	if e.MirrorBalances {
		return ErrMirroredLedger
	}
	return e.ledger.Credit(account, amount)
}
