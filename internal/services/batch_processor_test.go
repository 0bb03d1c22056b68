package services

import "testing"

func TestWindowsFor_ShortVideoSingleWindow(t *testing.T) {
	windows := windowsFor(300)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].start != 0 || windows[0].end != 300 {
		t.Fatalf("unexpected window: %+v", windows[0])
	}
}

func TestWindowsFor_ExactlyThreshold(t *testing.T) {
	windows := windowsFor(BatchWindowSeconds)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window at exactly the threshold, got %d", len(windows))
	}
}

func TestWindowsFor_LongVideoMultipleWindows(t *testing.T) {
	duration := BatchWindowSeconds*2 + 100
	windows := windowsFor(duration)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	if windows[0].start != 0 || windows[0].end != BatchWindowSeconds {
		t.Fatalf("unexpected first window: %+v", windows[0])
	}
	if windows[1].start != BatchWindowSeconds || windows[1].end != BatchWindowSeconds*2 {
		t.Fatalf("unexpected second window: %+v", windows[1])
	}
	if windows[2].start != BatchWindowSeconds*2 || windows[2].end != duration {
		t.Fatalf("unexpected last window: %+v", windows[2])
	}
}

func TestWindowsFor_WindowsAreContiguous(t *testing.T) {
	duration := BatchWindowSeconds*4 + 1
	windows := windowsFor(duration)
	for i := 1; i < len(windows); i++ {
		if windows[i].start != windows[i-1].end {
			t.Fatalf("gap between window %d end %.0f and window %d start %.0f", i-1, windows[i-1].end, i, windows[i].start)
		}
	}
	if windows[len(windows)-1].end != duration {
		t.Fatalf("last window should end at duration, got %.0f want %.0f", windows[len(windows)-1].end, duration)
	}
}
