package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// FeeRepo provides persistence for the fee attached to a spot type and
// its pricing rules.  Fee evaluation happens outside this service; the
// repo only stores and returns the configuration.
type FeeRepo struct {
    db *sql.DB
}

// NewFeeRepo returns a new FeeRepo bound to the given database.
func NewFeeRepo(db *sql.DB) *FeeRepo { return &FeeRepo{db: db} }

// FeeDetail is a fee joined with its ordered rules.
type FeeDetail struct {
    ID          uint64        `json:"id"`
    Name        string        `json:"name"`
    DailyMaxCap *float64      `json:"daily_max_cap,omitempty"`
    SpotTypeID  uint64        `json:"spot_type_id"`
    Rules       []FeeRuleView `json:"rules"`
}

// FeeRuleView is the response shape of one pricing rule.
type FeeRuleView struct {
    ID           uint64  `json:"id"`
    Priority     int     `json:"priority"`
    DaysOfWeek   *string `json:"days_of_week,omitempty"`
    TimeStart    *string `json:"time_start,omitempty"`
    TimeEnd      *string `json:"time_end,omitempty"`
    ChargeType   string  `json:"charge_type"`
    ChargeAmount float64 `json:"charge_amount"`
}

// GetBySpotType returns the fee configured for the spot type together
// with its rules ordered by priority, or ErrFeeNotFound when the type
// has no fee.
func (r *FeeRepo) GetBySpotType(ctx context.Context, spotTypeID uint64) (*FeeDetail, error) {
    var fee model.Fee
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, daily_max_cap, spot_type_id FROM fees WHERE spot_type_id = ?`, spotTypeID).
        Scan(&fee.ID, &fee.Name, &fee.DailyMaxCap, &fee.SpotTypeID)
    if err == sql.ErrNoRows {
        return nil, ErrFeeNotFound
    }
    if err != nil {
        return nil, err
    }

    const ruleQ = `SELECT id, priority, days_of_week, time_start, time_end, charge_type, charge_amount
                   FROM fee_rules WHERE fee_id = ? ORDER BY priority`
    rows, err := r.db.QueryContext(ctx, ruleQ, fee.ID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    detail := &FeeDetail{
        ID:          fee.ID,
        Name:        fee.Name,
        DailyMaxCap: fee.DailyMaxCap,
        SpotTypeID:  fee.SpotTypeID,
        Rules:       []FeeRuleView{},
    }
    for rows.Next() {
        var rule model.FeeRule
        if err := rows.Scan(&rule.ID, &rule.Priority, &rule.DaysOfWeek, &rule.TimeStart, &rule.TimeEnd,
            &rule.ChargeType, &rule.ChargeAmount); err != nil {
            return nil, err
        }
        detail.Rules = append(detail.Rules, FeeRuleView{
            ID:           rule.ID,
            Priority:     rule.Priority,
            DaysOfWeek:   rule.DaysOfWeek,
            TimeStart:    rule.TimeStart,
            TimeEnd:      rule.TimeEnd,
            ChargeType:   rule.ChargeType,
            ChargeAmount: rule.ChargeAmount,
        })
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return detail, nil
}

// Replace installs the fee and rules for a spot type, overwriting any
// existing configuration.  The whole replacement runs in one
// transaction so readers never observe a fee without its rules.
func (r *FeeRepo) Replace(ctx context.Context, fee *model.Fee, rules []model.FeeRule) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Cascade removes the old rules.
    if _, err := tx.ExecContext(ctx, `DELETE FROM fees WHERE spot_type_id = ?`, fee.SpotTypeID); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO fees (name, daily_max_cap, spot_type_id) VALUES (?, ?, ?)`,
        fee.Name, fee.DailyMaxCap, fee.SpotTypeID)
    if err != nil {
        return err
    }
    feeID, err := res.LastInsertId()
    if err != nil {
        return err
    }
    fee.ID = uint64(feeID)

    const ruleQ = `INSERT INTO fee_rules (priority, days_of_week, time_start, time_end, charge_type, charge_amount, fee_id)
                   VALUES (?, ?, ?, ?, ?, ?, ?)`
    for i := range rules {
        rules[i].FeeID = fee.ID
        rres, err := tx.ExecContext(ctx, ruleQ,
            rules[i].Priority, rules[i].DaysOfWeek, rules[i].TimeStart, rules[i].TimeEnd,
            rules[i].ChargeType, rules[i].ChargeAmount, fee.ID)
        if err != nil {
            return err
        }
        rid, err := rres.LastInsertId()
        if err != nil {
            return err
        }
        rules[i].ID = uint64(rid)
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
