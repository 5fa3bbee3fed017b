package lnbits

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MilliSat is the unit the service speaks on the wire.
type MilliSat int64

// Sat is the unit exposed to callers.
type Sat int64

const msatPerSat = 1000

// Sats converts to satoshi, truncating toward zero (1999 msat is 1 sat).
func (m MilliSat) Sats() Sat {
	return Sat(m / msatPerSat)
}

func (s Sat) MilliSats() MilliSat {
	return MilliSat(s * msatPerSat)
}

var printer = message.NewPrinter(language.English)

func (s Sat) String() string {
	return printer.Sprintf("%d sat", int64(s))
}

// satPtr converts an optional msat bound.
func satPtr(m MilliSat) *Sat {
	s := m.Sats()
	return &s
}
