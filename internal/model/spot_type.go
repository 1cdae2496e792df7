package model

// SpotType categorizes parking spots (e.g. Standard, Compact,
// Handicap, Electric Vehicle).  Each type optionally carries one Fee
// describing how parking in spots of this type is priced.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique type name.
//  Description – optional description of the type.
type SpotType struct {
    ID          uint64  // spot_types.id
    Name        string  // spot_types.name
    Description *string // spot_types.description (nullable)
}

// Fee is the pricing container attached to a spot type.  Fee
// evaluation itself happens outside this service; the association is
// kept so lot detail views can surface pricing alongside spot counts.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the fee.
//  DailyMaxCap – optional daily charge ceiling.
//  SpotTypeID  – spot type this fee belongs to (one fee per type).
type Fee struct {
    ID          uint64   // fees.id
    Name        string   // fees.name
    DailyMaxCap *float64 // fees.daily_max_cap (nullable)
    SpotTypeID  uint64   // fees.spot_type_id
}

// Charge type enumeration for fee rules.
const (
    ChargeHourly    = "HOURLY"
    ChargePerMinute = "PER_MINUTE"
    ChargeFlatRate  = "FLAT_RATE"
)

// ValidChargeType reports whether s is a known charge type value.
func ValidChargeType(s string) bool {
    switch s {
    case ChargeHourly, ChargePerMinute, ChargeFlatRate:
        return true
    }
    return false
}

// FeeRule is a single pricing rule under a Fee.  Rules are ordered by
// Priority and may be restricted to days of the week or a time window.
// Rule evaluation is out of scope here.
//
// Fields:
//  ID           – primary key identifier.
//  Priority     – evaluation order (lower first).
//  DaysOfWeek   – optional comma-separated day list (e.g. "Mon,Tue").
//  TimeStart    – optional start of the applicable window ("HH:MM").
//  TimeEnd      – optional end of the applicable window ("HH:MM").
//  ChargeType   – HOURLY, PER_MINUTE or FLAT_RATE.
//  ChargeAmount – amount charged per unit of the charge type.
//  FeeID        – fee this rule belongs to.
type FeeRule struct {
    ID           uint64  // fee_rules.id
    Priority     int     // fee_rules.priority
    DaysOfWeek   *string // fee_rules.days_of_week (nullable)
    TimeStart    *string // fee_rules.time_start (nullable)
    TimeEnd      *string // fee_rules.time_end (nullable)
    ChargeType   string  // fee_rules.charge_type
    ChargeAmount float64 // fee_rules.charge_amount
    FeeID        uint64  // fee_rules.fee_id
}
