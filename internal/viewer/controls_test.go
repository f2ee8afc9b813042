package viewer

import (
	"sync"
	"testing"
)

func TestManualInputForcesOverride(t *testing.T) {
	c := NewControls(true)

	c.SetPitch(0.5)
	st := c.View()
	if !st.ManualOverride || st.AutoRotate {
		t.Errorf("after SetPitch: manual=%v auto=%v, want manual=true auto=false",
			st.ManualOverride, st.AutoRotate)
	}

	c = NewControls(true)
	c.SetYaw(1.0)
	st = c.View()
	if !st.ManualOverride || st.AutoRotate {
		t.Errorf("after SetYaw: manual=%v auto=%v, want manual=true auto=false",
			st.ManualOverride, st.AutoRotate)
	}
}

func TestToggleAutoRotateClearsOverride(t *testing.T) {
	c := NewControls(false)
	c.SetYaw(1.0)

	if on := c.ToggleAutoRotate(); !on {
		t.Fatal("expected toggle to turn auto-rotation on")
	}
	st := c.View()
	if st.ManualOverride {
		t.Error("turning auto-rotation on must clear the manual hold")
	}

	// Turning it off again leaves the override as-is.
	if on := c.ToggleAutoRotate(); on {
		t.Fatal("expected toggle to turn auto-rotation off")
	}
	st = c.View()
	if st.ManualOverride {
		t.Error("override should still be false")
	}
}

func TestOverrideImpliesNoAutoRotate(t *testing.T) {
	// The invariant holds through any interleaving of setters.
	c := NewControls(true)
	ops := []func(){
		func() { c.SetPitch(0.2) },
		func() { c.ToggleAutoRotate() },
		func() { c.SetYaw(0.7) },
		func() { c.Reset() },
		func() { c.ZoomIn() },
		func() { c.ToggleAutoRotate() },
		func() { c.SetPitch(-0.4) },
	}
	for i, op := range ops {
		op()
		st := c.View()
		if st.ManualOverride && st.AutoRotate {
			t.Fatalf("after op %d: manualOverride and autoRotate both true", i)
		}
	}
}

func TestZoomClamping(t *testing.T) {
	c := NewControls(false)

	for i := 0; i < 100; i++ {
		c.ZoomIn()
	}
	if d := c.View().Distance; d != MinZoom {
		t.Errorf("distance after repeated zoom in = %f, want %f", d, float32(MinZoom))
	}

	for i := 0; i < 100; i++ {
		c.ZoomOut()
	}
	if d := c.View().Distance; d != MaxZoom {
		t.Errorf("distance after repeated zoom out = %f, want %f", d, float32(MaxZoom))
	}
}

func TestZoomWheelUsesSignOnly(t *testing.T) {
	c := NewControls(false)
	start := c.View().Distance

	c.ZoomWheel(120)
	small := start - c.View().Distance

	c2 := NewControls(false)
	c2.ZoomWheel(1)
	large := start - c2.View().Distance

	if small != large {
		t.Errorf("wheel magnitude affected zoom: %f vs %f", small, large)
	}
	if small != ZoomStep {
		t.Errorf("wheel zoom step = %f, want %f", small, float32(ZoomStep))
	}

	c.ZoomWheel(0)
	if got := c.View().Distance; got != start-ZoomStep {
		t.Errorf("zero delta changed distance to %f", got)
	}
}

func TestAdvanceAutoRotation(t *testing.T) {
	c := NewControls(true)

	st1 := c.Advance()
	st2 := c.Advance()
	if st2.Yaw <= st1.Yaw {
		t.Error("yaw did not advance while auto-rotating")
	}

	// Manual override freezes the advance.
	c.SetYaw(1.0)
	st3 := c.Advance()
	st4 := c.Advance()
	if st3.Yaw != 1.0 || st4.Yaw != 1.0 {
		t.Errorf("yaw advanced despite manual hold: %f, %f", st3.Yaw, st4.Yaw)
	}
}

func TestResetLeavesAutoRotateUntouched(t *testing.T) {
	for _, auto := range []bool{true, false} {
		c := NewControls(auto)
		c.SetPitch(0.8) // forces auto off, manual on
		c.ZoomIn()

		if auto {
			c.ToggleAutoRotate() // back on
		}
		before := c.View().AutoRotate

		c.Reset()
		st := c.View()
		if st.Distance != DefaultDistance {
			t.Errorf("distance after reset = %f, want %f", st.Distance, float32(DefaultDistance))
		}
		if st.Pitch != 0 || st.Yaw != 0 {
			t.Errorf("orientation after reset = (%f, %f), want (0, 0)", st.Pitch, st.Yaw)
		}
		if st.ManualOverride {
			t.Error("manual override survived reset")
		}
		if st.AutoRotate != before {
			t.Errorf("reset changed autoRotate from %v to %v", before, st.AutoRotate)
		}
	}
}

func TestPitchClamped(t *testing.T) {
	c := NewControls(false)
	c.SetPitch(99)
	if p := c.View().Pitch; p != maxPitch {
		t.Errorf("pitch = %f, want clamp at %f", p, float32(maxPitch))
	}
	c.SetPitch(-99)
	if p := c.View().Pitch; p != minPitch {
		t.Errorf("pitch = %f, want clamp at %f", p, float32(minPitch))
	}
}

func TestConcurrentSettersKeepInvariant(t *testing.T) {
	c := NewControls(true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				switch (n + j) % 4 {
				case 0:
					c.SetYaw(float32(j))
				case 1:
					c.ToggleAutoRotate()
				case 2:
					c.ZoomWheel(float32(j%3 - 1))
				case 3:
					c.Reset()
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		st := c.Advance()
		if st.ManualOverride && st.AutoRotate {
			t.Fatal("torn state: manualOverride and autoRotate both true")
		}
	}
}
