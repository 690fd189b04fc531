package order

import (
	"testing"
	"time"
)

func TestFormatHumanID(t *testing.T) {
	cases := []struct {
		seq  int
		date time.Time
		want string
	}{
		{1, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC), "001-05.03.2025"},
		{7, time.Date(2025, 3, 5, 23, 59, 0, 0, time.UTC), "007-05.03.2025"},
		{42, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "042-31.12.2024"},
		{123, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "123-01.01.2025"},
		// 999'u aşan sıra numarası kırpılmadan yazılır
		{1000, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), "1000-15.06.2025"},
	}

	for _, tc := range cases {
		got := FormatHumanID(tc.seq, tc.date)
		if got != tc.want {
			t.Errorf("FormatHumanID(%d, %s) = %q, beklenen %q", tc.seq, tc.date, got, tc.want)
		}
	}
}

func TestFormatHumanIDUsesUTCDay(t *testing.T) {
	// Yerel saat 23:30 (UTC+5) → UTC'de bir önceki gün değil, aynı gün 18:30
	loc := time.FixedZone("UZT", 5*60*60)
	local := time.Date(2025, 3, 6, 1, 30, 0, 0, loc) // UTC'de 2025-03-05 20:30
	got := FormatHumanID(3, local)
	if got != "003-05.03.2025" {
		t.Errorf("FormatHumanID = %q, beklenen UTC gününe göre 003-05.03.2025", got)
	}
}

func TestDayKeyUTC(t *testing.T) {
	loc := time.FixedZone("UZT", 5*60*60)
	local := time.Date(2025, 3, 6, 1, 30, 0, 0, loc)
	if got := DayKeyUTC(local); got != "2025-03-05" {
		t.Errorf("DayKeyUTC = %q, beklenen 2025-03-05", got)
	}
}
