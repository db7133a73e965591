package domain

import "testing"

func TestPriorityScore(t *testing.T) {
	cases := []struct {
		importance, urgency int
		want                float64
	}{
		{3, 3, 3.0},
		{5, 5, 5.0},
		{1, 1, 1.0},
		{5, 4, 4.6},
		{4, 5, 4.4},
		{2, 3, 2.4},
		{1, 5, 2.6},
		{5, 1, 3.4},
	}
	for _, c := range cases {
		if got := PriorityScore(c.importance, c.urgency); got != c.want {
			t.Errorf("PriorityScore(%d, %d) = %v, want %v", c.importance, c.urgency, got, c.want)
		}
	}
}

func TestPriorityScoreWeightsImportanceHigher(t *testing.T) {
	if PriorityScore(5, 1) <= PriorityScore(1, 5) {
		t.Error("importance should outweigh urgency")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusAccepted, StatusDone} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("archived").Valid() {
		t.Error("archived should be invalid")
	}
	if Status("").Valid() {
		t.Error("empty status should be invalid")
	}
}

func TestFilterValid(t *testing.T) {
	for _, f := range []Filter{FilterAll, FilterDone, FilterActive} {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if Filter("pending").Valid() {
		t.Error("pending should be invalid")
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindTask, KindIdea, KindNote} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if Kind("event").Valid() {
		t.Error("event should be invalid")
	}
}
