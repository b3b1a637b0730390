package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Slot strings are time ranges like "2:00 PM - 2:30 PM". Canonical form
// zero-pads both endpoints ("02:00 PM - 02:30 PM") so that set operations
// against booked slots are stable under padding and whitespace variation.

const (
	dateLayout      = "2006-01-02"
	slotStartLayout = "2006-01-02 03:04 PM"
)

var slotEndpointRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// CanonicalizeSlot normalizes a single "H:MM AM/PM - H:MM AM/PM" range into
// canonical form. Malformed input is a caller error and is reported, never
// silently dropped.
func CanonicalizeSlot(raw string) (string, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid slot %q: expected a start - end range", raw)
	}

	endpoints := make([]string, 2)
	for i, part := range parts {
		m := slotEndpointRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return "", fmt.Errorf("invalid slot %q: bad time %q", raw, strings.TrimSpace(part))
		}
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return "", fmt.Errorf("invalid slot %q: time %q out of range", raw, strings.TrimSpace(part))
		}
		endpoints[i] = fmt.Sprintf("%02d:%02d %s", hour, minute, strings.ToUpper(m[3]))
	}

	return endpoints[0] + " - " + endpoints[1], nil
}

// CanonicalizeSlots normalizes every slot in the list, preserving order.
func CanonicalizeSlots(raws []string) ([]string, error) {
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		canonical, err := CanonicalizeSlot(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, canonical)
	}
	return out, nil
}

// SubtractSlots returns template minus booked, preserving template order.
// Both inputs must already be canonical.
func SubtractSlots(template, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	var out []string
	for _, slot := range template {
		if _, ok := taken[slot]; !ok {
			out = append(out, slot)
		}
	}
	return out
}

// SlotStart resolves the absolute start time of a canonical slot on the
// given date, in the process-local timezone.
func SlotStart(date, slot string) (time.Time, error) {
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid slot %q: expected a start - end range", slot)
	}
	start := strings.TrimSpace(parts[0])
	t, err := time.ParseInLocation(slotStartLayout, date+" "+start, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot start %q on %q: %w", start, date, err)
	}
	return t, nil
}

// DayName returns the weekday name ("Monday", ...) for a YYYY-MM-DD date.
func DayName(date string) (string, error) {
	t, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Weekday().String(), nil
}

// IsPastDate reports whether the date is strictly before today.
func IsPastDate(date string, now time.Time) bool {
	t, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return t.Before(today)
}

// IsToday reports whether the date is the current calendar day.
func IsToday(date string, now time.Time) bool {
	return date == now.In(time.Local).Format(dateLayout)
}
