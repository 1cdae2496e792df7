package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
    base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

    cases := []struct {
        name                           string
        aStart, aEnd, bStart, bEnd     time.Time
        want                           bool
    }{
        {"identical windows", at(0), at(2), at(0), at(2), true},
        {"contained window", at(0), at(4), at(1), at(2), true},
        {"partial overlap at end", at(0), at(2), at(1), at(3), true},
        {"partial overlap at start", at(1), at(3), at(0), at(2), true},
        {"back to back, a before b", at(0), at(2), at(2), at(4), false},
        {"back to back, b before a", at(2), at(4), at(0), at(2), false},
        {"disjoint", at(0), at(1), at(5), at(6), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
            // Overlap is symmetric.
            assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
        })
    }
}

func TestOverlapsSelf(t *testing.T) {
    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    end := start.Add(time.Hour)
    assert.True(t, Overlaps(start, end, start, end))
}

func TestReservationStatusHelpers(t *testing.T) {
    assert.True(t, ValidReservationStatus(ReservationActive))
    assert.True(t, ValidReservationStatus(ReservationCancelled))
    assert.True(t, ValidReservationStatus(ReservationCompleted))
    assert.False(t, ValidReservationStatus("PENDING"))
    assert.False(t, ValidReservationStatus("active"))

    assert.False(t, TerminalReservationStatus(ReservationActive))
    assert.True(t, TerminalReservationStatus(ReservationCancelled))
    assert.True(t, TerminalReservationStatus(ReservationCompleted))
}

func TestValidSpotStatus(t *testing.T) {
    for _, s := range []string{SpotAvailable, SpotOccupied, SpotReserved, SpotMaintenance} {
        assert.True(t, ValidSpotStatus(s), s)
    }
    assert.False(t, ValidSpotStatus("FREE"))
    assert.False(t, ValidSpotStatus("available"))
    assert.False(t, ValidSpotStatus(""))
}
