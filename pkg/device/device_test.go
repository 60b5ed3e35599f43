package device

import "testing"

func TestStatic(t *testing.T) {
	if Static(false).IsMobile() {
		t.Error("Static(false).IsMobile() = true")
	}
	if !Static(true).IsMobile() {
		t.Error("Static(true).IsMobile() = false")
	}
}

func TestSwitchableNotifiesOnChange(t *testing.T) {
	d := NewSwitchable(false)

	var got []bool
	cancel := d.Subscribe(func(mobile bool) {
		got = append(got, mobile)
	})

	d.Set(true)
	d.Set(true) // no change, no callback
	d.Set(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Errorf("callbacks = %v, want [true false]", got)
	}
	if d.IsMobile() {
		t.Error("IsMobile() = true after Set(false)")
	}

	cancel()
	d.Set(true)
	if len(got) != 2 {
		t.Errorf("callback fired after cancel: %v", got)
	}
}

func TestSwitchableCancelIsIdempotent(t *testing.T) {
	d := NewSwitchable(false)
	cancel := d.Subscribe(func(bool) {})
	cancel()
	cancel()
}
