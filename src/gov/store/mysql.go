package store

import (
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/dao-governance/src/gov"
)

// Row types own the schema; the domain structs stay storage-agnostic.
// Payloads and voter ballots do not fit flat columns: payloads land in a
// JSON text column, ballots in their own table keyed (proposal_id, voter).

type orgRow struct {
	ID                  uint8  `gorm:"primaryKey"`
	Kind                string `gorm:"size:16;not null"`
	Name                string `gorm:"size:128;not null"`
	Description         string `gorm:"type:text"`
	ImageURL            string `gorm:"size:256"`
	TokenRef            string `gorm:"size:256"`
	MinAdminWeight      uint64 `gorm:"not null"`
	MinSuperAdminWeight uint64 `gorm:"not null"`
	CreatedAt           uint64 `gorm:"not null"`
}

func (orgRow) TableName() string { return "organization" }

type typeRow struct {
	Name               string `gorm:"primaryKey;size:64"`
	Duration           uint64 `gorm:"not null"`
	MinWeightToVote    uint64 `gorm:"not null"`
	MinWeightToCreate  uint64 `gorm:"not null"`
	MinWeightToExecute uint64 `gorm:"not null"`
}

func (typeRow) TableName() string { return "proposal_types" }

type roleRow struct {
	Name   string `gorm:"primaryKey;size:64"`
	Weight uint64 `gorm:"not null"`
}

func (roleRow) TableName() string { return "roles" }

type memberRow struct {
	Address string `gorm:"primaryKey;size:128"`
	Role    string `gorm:"size:64;not null;index"`
}

func (memberRow) TableName() string { return "members" }

type proposalRow struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement:false"`
	Type             string `gorm:"size:64;not null"`
	Action           string `gorm:"size:32;not null"`
	Title            string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text"`
	Creator          string `gorm:"size:128;not null;index"`
	Approve          uint64 `gorm:"default:0"`
	Reject           uint64 `gorm:"default:0"`
	Abstain          uint64 `gorm:"default:0"`
	TotalWeight      uint64 `gorm:"default:0"`
	CreatedAt        uint64 `gorm:"not null"`
	EndsAt           uint64 `gorm:"not null;index"`
	Duration         uint64 `gorm:"not null"`
	ExecuteThreshold uint64 `gorm:"not null"`
	Result           string `gorm:"size:16;not null"`
	Executed         bool   `gorm:"default:false"`
	Payload          string `gorm:"type:text"`
}

func (proposalRow) TableName() string { return "proposals" }

type voteRow struct {
	ProposalID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Voter      string `gorm:"primaryKey;size:128"`
	Choice     string `gorm:"size:16;not null"`
	Weight     uint64 `gorm:"not null"`
}

func (voteRow) TableName() string { return "votes" }

// counterRow hands out proposal ids. A dedicated row instead of
// AUTO_INCREMENT keeps ids dense and zero-based even across rollbacks.
type counterRow struct {
	ID   uint8  `gorm:"primaryKey"`
	Next uint64 `gorm:"not null"`
}

func (counterRow) TableName() string { return "proposal_counter" }

type balanceRow struct {
	Address string `gorm:"primaryKey;size:128"`
	Amount  uint64 `gorm:"not null;default:0"`
}

func (balanceRow) TableName() string { return "balances" }

type treasuryRow struct {
	Asset  string `gorm:"primaryKey;size:128"`
	Amount uint64 `gorm:"not null;default:0"`
}

func (treasuryRow) TableName() string { return "treasury" }

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&orgRow{}, &typeRow{}, &roleRow{}, &memberRow{},
		&proposalRow{}, &voteRow{}, &counterRow{},
		&balanceRow{}, &treasuryRow{},
	}
}

// MySQL persists governance records through gorm.
type MySQL struct {
	db *gorm.DB
}

func NewMySQL(db *gorm.DB) *MySQL { return &MySQL{db: db} }

func (s *MySQL) Organization() (*gov.Organization, error) {
	var row orgRow
	err := s.db.First(&row, "id = 1").Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orgFromRow(&row), nil
}

func (s *MySQL) SaveOrganization(org *gov.Organization) error {
	row := orgToRow(org)
	return s.db.Save(row).Error
}

func (s *MySQL) InitOrganization(org *gov.Organization, seed *gov.ProposalType, role *gov.Role, member *gov.Member) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing orgRow
		err := tx.First(&existing, "id = 1").Error
		if err == nil {
			return gov.ErrAlreadyInitialized
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(orgToRow(org)).Error; err != nil {
			return err
		}
		if err := tx.Create(&counterRow{ID: 1, Next: 0}).Error; err != nil {
			return err
		}
		if seed != nil {
			if err := tx.Create(&typeRow{
				Name:               seed.Name,
				Duration:           seed.Duration,
				MinWeightToVote:    seed.MinWeightToVote,
				MinWeightToCreate:  seed.MinWeightToCreate,
				MinWeightToExecute: seed.MinWeightToExecute,
			}).Error; err != nil {
				return err
			}
		}
		if role != nil {
			if err := tx.Create(&roleRow{Name: role.Name, Weight: role.Weight}).Error; err != nil {
				return err
			}
		}
		if member != nil {
			if err := tx.Create(&memberRow{Address: member.Address, Role: member.Role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *MySQL) ProposalType(name string) (*gov.ProposalType, error) {
	var row typeRow
	err := s.db.First(&row, "name = ?", name).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := gov.ProposalType(row)
	return &t, nil
}

func (s *MySQL) ProposalTypes() ([]gov.ProposalType, error) {
	var rows []typeRow
	if err := s.db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]gov.ProposalType, len(rows))
	for i, r := range rows {
		out[i] = gov.ProposalType(r)
	}
	return out, nil
}

func (s *MySQL) ProposalTypeCount() (int64, error) {
	var n int64
	err := s.db.Model(&typeRow{}).Count(&n).Error
	return n, err
}

func (s *MySQL) SaveProposalType(pt *gov.ProposalType) error {
	row := typeRow(*pt)
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (s *MySQL) DeleteProposalType(name string) error {
	return s.db.Delete(&typeRow{}, "name = ?", name).Error
}

func (s *MySQL) Role(name string) (*gov.Role, error) {
	var row roleRow
	err := s.db.First(&row, "name = ?", name).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := gov.Role(row)
	return &r, nil
}

func (s *MySQL) Roles() ([]gov.Role, error) {
	var rows []roleRow
	if err := s.db.Order("weight desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]gov.Role, len(rows))
	for i, r := range rows {
		out[i] = gov.Role(r)
	}
	return out, nil
}

func (s *MySQL) SaveRole(r *gov.Role) error {
	row := roleRow(*r)
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (s *MySQL) DeleteRole(name string) error {
	return s.db.Delete(&roleRow{}, "name = ?", name).Error
}

func (s *MySQL) MembersWithRole(name string) (int64, error) {
	var n int64
	err := s.db.Model(&memberRow{}).Where("role = ?", name).Count(&n).Error
	return n, err
}

func (s *MySQL) Member(address string) (*gov.Member, error) {
	var row memberRow
	err := s.db.First(&row, "address = ?", address).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := gov.Member(row)
	return &m, nil
}

func (s *MySQL) Members() ([]gov.Member, error) {
	var rows []memberRow
	if err := s.db.Order("address asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]gov.Member, len(rows))
	for i, r := range rows {
		out[i] = gov.Member(r)
	}
	return out, nil
}

func (s *MySQL) SaveMember(m *gov.Member) error {
	row := memberRow(*m)
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (s *MySQL) DeleteMember(address string) error {
	return s.db.Delete(&memberRow{}, "address = ?", address).Error
}

func (s *MySQL) CreateProposal(p *gov.Proposal) (uint64, error) {
	var id uint64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c counterRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = 1").Error; err != nil {
			return err
		}
		id = c.Next
		p.ID = id
		row, err := proposalToRow(p)
		if err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return tx.Model(&counterRow{}).Where("id = 1").
			UpdateColumn("next", gorm.Expr("next + 1")).Error
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *MySQL) Proposal(id uint64) (*gov.Proposal, error) {
	var row proposalRow
	err := s.db.First(&row, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p, err := proposalFromRow(&row)
	if err != nil {
		return nil, err
	}
	var votes []voteRow
	if err := s.db.Find(&votes, "proposal_id = ?", id).Error; err != nil {
		return nil, err
	}
	p.Voters = make(map[string]gov.VoteRecord, len(votes))
	for _, v := range votes {
		p.Voters[v.Voter] = gov.VoteRecord{Choice: gov.Choice(v.Choice), Weight: v.Weight}
	}
	return p, nil
}

func (s *MySQL) Proposals(offset, limit int) ([]gov.Proposal, error) {
	var rows []proposalRow
	q := s.db.Order("id desc")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]gov.Proposal, 0, len(rows))
	for i := range rows {
		p, err := proposalFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *MySQL) UnsettledBefore(now uint64) ([]gov.Proposal, error) {
	var rows []proposalRow
	err := s.db.Where("executed = ? AND ends_at <= ?", false, now).
		Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]gov.Proposal, 0, len(rows))
	for i := range rows {
		p, err := proposalFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *MySQL) ProposalCount() (int64, error) {
	var n int64
	err := s.db.Model(&proposalRow{}).Count(&n).Error
	return n, err
}

func (s *MySQL) NextProposalID() (uint64, error) {
	var c counterRow
	err := s.db.First(&c, "id = 1").Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Next, nil
}

func (s *MySQL) ProposalCreator(id uint64) (string, error) {
	var row proposalRow
	err := s.db.Select("creator").First(&row, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Creator, nil
}

func (s *MySQL) SaveVote(p *gov.Proposal, voter string) error {
	rec, ok := p.Voters[voter]
	if !ok {
		return gov.ErrInvalidChoice
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&proposalRow{}).Where("id = ?", p.ID).Updates(map[string]any{
			"approve":      p.Approve,
			"reject":       p.Reject,
			"abstain":      p.Abstain,
			"total_weight": p.TotalWeight,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gov.ErrUnknownProposal
		}
		row := voteRow{
			ProposalID: p.ID,
			Voter:      voter,
			Choice:     string(rec.Choice),
			Weight:     rec.Weight,
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	})
}

func (s *MySQL) FinalizeProposal(p *gov.Proposal) error {
	res := s.db.Model(&proposalRow{}).Where("id = ?", p.ID).Updates(map[string]any{
		"result":   string(p.Result),
		"executed": p.Executed,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gov.ErrUnknownProposal
	}
	return nil
}

func orgToRow(org *gov.Organization) *orgRow {
	return &orgRow{
		ID:                  1,
		Kind:                string(org.Kind),
		Name:                org.Name,
		Description:         org.Description,
		ImageURL:            org.ImageURL,
		TokenRef:            org.TokenRef,
		MinAdminWeight:      org.MinAdminWeight,
		MinSuperAdminWeight: org.MinSuperAdminWeight,
		CreatedAt:           org.CreatedAt,
	}
}

func orgFromRow(row *orgRow) *gov.Organization {
	return &gov.Organization{
		Kind:                gov.OrgKind(row.Kind),
		Name:                row.Name,
		Description:         row.Description,
		ImageURL:            row.ImageURL,
		TokenRef:            row.TokenRef,
		MinAdminWeight:      row.MinAdminWeight,
		MinSuperAdminWeight: row.MinSuperAdminWeight,
		CreatedAt:           row.CreatedAt,
	}
}

func proposalToRow(p *gov.Proposal) (*proposalRow, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return nil, err
	}
	return &proposalRow{
		ID:               p.ID,
		Type:             p.Type,
		Action:           string(p.Action),
		Title:            p.Title,
		Description:      p.Description,
		Creator:          p.Creator,
		Approve:          p.Approve,
		Reject:           p.Reject,
		Abstain:          p.Abstain,
		TotalWeight:      p.TotalWeight,
		CreatedAt:        p.CreatedAt,
		EndsAt:           p.EndsAt,
		Duration:         p.Duration,
		ExecuteThreshold: p.ExecuteThreshold,
		Result:           string(p.Result),
		Executed:         p.Executed,
		Payload:          string(payload),
	}, nil
}

func proposalFromRow(row *proposalRow) (*gov.Proposal, error) {
	p := &gov.Proposal{
		ID:               row.ID,
		Type:             row.Type,
		Action:           gov.Action(row.Action),
		Title:            row.Title,
		Description:      row.Description,
		Creator:          row.Creator,
		Approve:          row.Approve,
		Reject:           row.Reject,
		Abstain:          row.Abstain,
		TotalWeight:      row.TotalWeight,
		CreatedAt:        row.CreatedAt,
		EndsAt:           row.EndsAt,
		Duration:         row.Duration,
		ExecuteThreshold: row.ExecuteThreshold,
		Result:           gov.Result(row.Result),
		Executed:         row.Executed,
	}
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &p.Payload); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MySQLLedger keeps balances and treasury holdings in the same database.
// Debits are conditional single-statement updates, so two concurrent debits
// can never overdraw a row.
type MySQLLedger struct {
	db *gorm.DB
}

func NewMySQLLedger(db *gorm.DB) *MySQLLedger { return &MySQLLedger{db: db} }

func (l *MySQLLedger) Balance(account string) (uint64, error) {
	var row balanceRow
	err := l.db.First(&row, "address = ?", account).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (l *MySQLLedger) Credit(account string, amount uint64) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&balanceRow{Address: account}).Error; err != nil {
			return err
		}
		return tx.Model(&balanceRow{}).Where("address = ?", account).
			UpdateColumn("amount", gorm.Expr("amount + ?", amount)).Error
	})
}

func (l *MySQLLedger) Debit(account string, amount uint64) error {
	res := l.db.Model(&balanceRow{}).
		Where("address = ? AND amount >= ?", account, amount).
		UpdateColumn("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gov.ErrInsufficientBalance
	}
	return nil
}

// SetBalance overwrites an account's balance; the chain indexer uses it to
// mirror on-chain state.
func (l *MySQLLedger) SetBalance(account string, amount uint64) error {
	row := balanceRow{Address: account, Amount: amount}
	return l.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// TrackAddress registers an account for balance mirroring without touching
// an existing row.
func (l *MySQLLedger) TrackAddress(account string) error {
	return l.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&balanceRow{Address: account}).Error
}

// Addresses lists every account the ledger knows about.
func (l *MySQLLedger) Addresses() ([]string, error) {
	var addrs []string
	err := l.db.Model(&balanceRow{}).Pluck("address", &addrs).Error
	return addrs, err
}

func (l *MySQLLedger) TreasuryBalance(asset string) (uint64, error) {
	var row treasuryRow
	err := l.db.First(&row, "asset = ?", asset).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (l *MySQLLedger) TreasuryCredit(asset string, amount uint64) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&treasuryRow{Asset: asset}).Error; err != nil {
			return err
		}
		return tx.Model(&treasuryRow{}).Where("asset = ?", asset).
			UpdateColumn("amount", gorm.Expr("amount + ?", amount)).Error
	})
}

func (l *MySQLLedger) TreasuryDebit(asset string, amount uint64) error {
	res := l.db.Model(&treasuryRow{}).
		Where("asset = ? AND amount >= ?", asset, amount).
		UpdateColumn("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gov.ErrInsufficientTreasury
	}
	return nil
}
