package models

const (
	MealEntryRegular = "regular"
	MealEntryBonus   = "bonus"
	MealEntryKO      = "ko"
)

const (
	DayStatusRegular = "regular"
	DayStatusHoliday = "holiday"
	DayStatusSick    = "sick"
)

const (
	MoodHappy = "felice"
	MoodSoSo  = "così così"
	MoodHard  = "difficile"
)

// MealSlot is one fixed meal opportunity in a day. The catalog is
// configuration, not data: it never varies per user or per day.
type MealSlot struct {
	ID    string
	Label string
	Time  string
	Icon  string
}

func DefaultMealSlots() []MealSlot {
	return []MealSlot{
		{ID: "colazione", Label: "Colazione", Time: "07:00", Icon: "coffee"},
		{ID: "spuntino_mattina", Label: "Spuntino Mattutino", Time: "11:00", Icon: "apple"},
		{ID: "pranzo", Label: "Pranzo", Time: "13:00", Icon: "utensils"},
		{ID: "spuntino_pomeriggio", Label: "Spuntino Pomeridiano", Time: "17:00", Icon: "apple"},
		{ID: "cena", Label: "Cena", Time: "20:00", Icon: "moon"},
	}
}

func MealSlotIDs() []string {
	slots := DefaultMealSlots()
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	return ids
}

func IsKnownMealSlot(slotID string) bool {
	for _, slot := range DefaultMealSlots() {
		if slot.ID == slotID {
			return true
		}
	}
	return false
}
