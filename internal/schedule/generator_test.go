package schedule

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/resnplay/court-booking-api/internal/model"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{" 10:15 ", 615, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
		{"09", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(540); got != "09:00" {
		t.Errorf("FormatClock(540) = %q, want %q", got, "09:00")
	}
	if got := FormatClock(630); got != "10:30" {
		t.Errorf("FormatClock(630) = %q, want %q", got, "10:30")
	}
	if got := FormatClock(0); got != "00:00" {
		t.Errorf("FormatClock(0) = %q, want %q", got, "00:00")
	}
}

func TestDaySlots(t *testing.T) {
	tests := []struct {
		name     string
		window   model.Window
		duration int
		want     []SlotTime
	}{
		{
			name:     "two full hours",
			window:   model.Window{Start: "09:00", End: "11:00"},
			duration: 60,
			want: []SlotTime{
				{Start: "09:00", End: "10:00"},
				{Start: "10:00", End: "11:00"},
			},
		},
		{
			name:     "trailing gap is discarded, not truncated",
			window:   model.Window{Start: "09:00", End: "11:00"},
			duration: 90,
			want:     []SlotTime{{Start: "09:00", End: "10:30"}},
		},
		{
			name:     "uneven window leaves remainder",
			window:   model.Window{Start: "09:00", End: "10:45"},
			duration: 30,
			want: []SlotTime{
				{Start: "09:00", End: "09:30"},
				{Start: "09:30", End: "10:00"},
				{Start: "10:00", End: "10:30"},
			},
		},
		{
			name:     "minute arithmetic crosses the hour",
			window:   model.Window{Start: "09:30", End: "11:00"},
			duration: 45,
			want: []SlotTime{
				{Start: "09:30", End: "10:15"},
				{Start: "10:15", End: "11:00"},
			},
		},
		{
			name:     "zero-length window",
			window:   model.Window{Start: "09:00", End: "09:00"},
			duration: 60,
			want:     nil,
		},
		{
			name:     "inverted window",
			window:   model.Window{Start: "18:00", End: "09:00"},
			duration: 60,
			want:     nil,
		},
		{
			name:     "duration longer than window",
			window:   model.Window{Start: "09:00", End: "09:45"},
			duration: 60,
			want:     nil,
		},
		{
			name:     "malformed open time means closed day",
			window:   model.Window{Start: "late", End: "18:00"},
			duration: 60,
			want:     nil,
		},
		{
			name:     "non-positive duration",
			window:   model.Window{Start: "09:00", End: "18:00"},
			duration: 0,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaySlots(tt.window, tt.duration)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DaySlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

// memSlotStore is an in-memory SlotStore enforcing the same uniqueness
// key as the MySQL table: (court, date, start time).
type memSlotStore struct {
	mu     sync.Mutex
	nextID uint64
	slots  map[string]model.TimeSlot
	err    error
}

func newMemSlotStore() *memSlotStore {
	return &memSlotStore{slots: make(map[string]model.TimeSlot)}
}

func (s *memSlotStore) CreateIfAbsent(ctx context.Context, slot *model.TimeSlot) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", slot.CourtID, slot.Date.Format("2006-01-02"), slot.StartTime)
	if _, ok := s.slots[key]; ok {
		return false, nil
	}
	s.nextID++
	slot.ID = s.nextID
	s.slots[key] = *slot
	return true, nil
}

// mondayHours opens the court 09:00-11:00 on Mondays only.
func mondayHours() model.OperatingHours {
	return model.OperatingHours{Monday: &model.Window{Start: "09:00", End: "11:00"}}
}

func TestGenerateSingleMonday(t *testing.T) {
	store := newMemSlotStore()
	gen := NewGenerator(store)
	// 2026-09-07 is a Monday.
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	created, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 60)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Generate() created %d slots, want 2", len(created))
	}
	if created[0].StartTime != "09:00" || created[0].EndTime != "10:00" {
		t.Errorf("first slot = %s-%s, want 09:00-10:00", created[0].StartTime, created[0].EndTime)
	}
	if created[1].StartTime != "10:00" || created[1].EndTime != "11:00" {
		t.Errorf("second slot = %s-%s, want 10:00-11:00", created[1].StartTime, created[1].EndTime)
	}
	for _, s := range created {
		if s.PriceCents != 5000 {
			t.Errorf("slot price = %d, want 5000 (court price snapshot)", s.PriceCents)
		}
		if !s.IsAvailable {
			t.Errorf("new slot should be available")
		}
	}
}

func TestGenerateSkipsClosedDays(t *testing.T) {
	store := newMemSlotStore()
	gen := NewGenerator(store)
	// Monday 2026-09-07 through Sunday 2026-09-13, only Monday is open.
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	created, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, from, to, 60)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(created) != 2 {
		t.Errorf("Generate() created %d slots, want 2 (closed days contribute none)", len(created))
	}
}

func TestGenerateGeneralHoursFallback(t *testing.T) {
	store := newMemSlotStore()
	gen := NewGenerator(store)
	hours := model.OperatingHours{
		Monday: &model.Window{Start: "09:00", End: "10:00"},
		Start:  "08:00",
		End:    "10:00",
	}
	// Monday and Tuesday: Monday uses its own window (1 slot), Tuesday
	// falls back to the general pair (2 slots).
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	created, err := gen.Generate(context.Background(), 1, hours, 5000, from, to, 60)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Generate() created %d slots, want 3", len(created))
	}
	if created[0].StartTime != "09:00" {
		t.Errorf("monday slot starts %s, want 09:00 (day-specific wins)", created[0].StartTime)
	}
	if created[1].StartTime != "08:00" {
		t.Errorf("tuesday slot starts %s, want 08:00 (general fallback)", created[1].StartTime)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	store := newMemSlotStore()
	gen := NewGenerator(store)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	nextMonday := monday.AddDate(0, 0, 7)

	first, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 60)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first Generate() created %d slots, want 2", len(first))
	}

	// Re-running over an overlapping, wider range must only create the
	// slots for the newly covered Monday.
	second, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, nextMonday, 60)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second Generate() created %d slots, want 2 (existing ones skipped)", len(second))
	}
	for _, s := range second {
		if s.Date.Equal(monday) {
			t.Errorf("second run re-created slot %s on the already generated day", s.StartTime)
		}
	}

	third, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, nextMonday, 60)
	if err != nil {
		t.Fatalf("third Generate() error = %v", err)
	}
	if len(third) != 0 {
		t.Errorf("third Generate() created %d slots, want 0", len(third))
	}
}

func TestGenerateConcurrentRuns(t *testing.T) {
	store := newMemSlotStore()
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// Overlapping generation requests race on the uniqueness key; each
	// slot must be created exactly once across all runs.
	const runs = 8
	created := make([]int, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots, err := NewGenerator(store).Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 60)
			if err != nil {
				t.Errorf("run %d: Generate() error = %v", i, err)
				return
			}
			created[i] = len(slots)
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range created {
		total += n
	}
	if total != 2 {
		t.Errorf("concurrent runs created %d slots in total, want 2", total)
	}
	if len(store.slots) != 2 {
		t.Errorf("store holds %d slots, want 2", len(store.slots))
	}
}

func TestGenerateDoesNotRepriceExistingSlots(t *testing.T) {
	store := newMemSlotStore()
	gen := NewGenerator(store)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	if _, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 60); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Same range at a new price: nothing created, old snapshots untouched.
	created, err := gen.Generate(context.Background(), 1, mondayHours(), 9900, monday, monday, 60)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("Generate() created %d slots, want 0", len(created))
	}
	for _, s := range store.slots {
		if s.PriceCents != 5000 {
			t.Errorf("existing slot repriced to %d, want 5000", s.PriceCents)
		}
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	gen := NewGenerator(newMemSlotStore())
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	if _, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday.AddDate(0, 0, -1), 60); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidRange", err)
	}
	if _, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero duration error = %v, want ErrInvalidDuration", err)
	}
}

func TestGenerateStoreErrorStopsWalk(t *testing.T) {
	store := newMemSlotStore()
	store.err = errors.New("connection lost")
	gen := NewGenerator(store)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	created, err := gen.Generate(context.Background(), 1, mondayHours(), 5000, monday, monday, 60)
	if err == nil {
		t.Fatal("Generate() expected store error, got nil")
	}
	if len(created) != 0 {
		t.Errorf("Generate() returned %d slots alongside the error, want 0", len(created))
	}
}
