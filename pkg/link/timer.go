package link

import "time"

// One shot timer armed once per transmission attempt. Expiry is polled by
// the session between octet reads, never delivered asynchronously, and
// latches until the next Arm or Cancel. The expiry count only grows.
type timer struct {
	deadline time.Time
	armed    bool
	expired  bool
	expiries uint
}

func (t *timer) Arm(d time.Duration) {
	t.deadline = time.Now().Add(d)
	t.armed = true
	t.expired = false
}

func (t *timer) Cancel() {
	t.armed = false
	t.expired = false
}

// Expired reports whether the current arming has timed out, observing the
// expiry at most once per arming.
func (t *timer) Expired() bool {
	if t.armed && !t.expired && !time.Now().Before(t.deadline) {
		t.armed = false
		t.expired = true
		t.expiries++
	}
	return t.expired
}

// Expiries returns the cumulative number of expiries since session creation
func (t *timer) Expiries() uint {
	return t.expiries
}
